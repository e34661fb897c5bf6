package upload_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/tradebook/internal/decode"
	"github.com/kislikjeka/tradebook/internal/ingest"
	"github.com/kislikjeka/tradebook/internal/upload"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

// MockStore is a mock implementation of upload.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, batch *upload.Batch, ttl time.Duration) error {
	args := m.Called(ctx, batch, ttl)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, id string) (*upload.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upload.Batch), args.Error(1)
}

const sampleCSV = "Ngày GD,Mã CK,Loại GD,Khối lượng,Giá\n" +
	"02/01/2024,VNM,Bán,150,\"1,050\"\n" +
	"01/01/2024,VNM,Mua,100,\"1,000\"\n"

func newService(store upload.Store) *upload.Service {
	log := logger.New("test", io.Discard)
	pipeline := ingest.NewPipeline(
		ingest.NewNormalizer(ingest.DefaultAliases()),
		ingest.NewDeriver(ingest.DefaultRates()),
		log,
	)
	return upload.NewService(pipeline, store, 10*time.Minute, log)
}

func TestService_Preview(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Save", ctx, mock.AnythingOfType("*upload.Batch"), 10*time.Minute).Return(nil)

	svc := newService(store)
	batch, err := svc.Preview(ctx, "user-1", "lenh.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, "user-1", batch.UserID)
	assert.Equal(t, "lenh.csv", batch.FileName)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, "2024-01-01", batch.Rows[0].TradeDate)
	assert.Equal(t, int64(-50), batch.Rows[1].RunningBalance)
	require.Len(t, batch.Warnings, 1)
	assert.Equal(t, 2, batch.Warnings[0].RowIndex)
	assert.Equal(t, 10*time.Minute, batch.ExpiresAt.Sub(batch.CreatedAt))

	store.AssertExpectations(t)
}

func TestService_Preview_Errors(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		fileName string
		body     string
		want     error
	}{
		{"missing user", "", "a.csv", sampleCSV, upload.ErrMissingUserID},
		{"unsupported format", "user-1", "a.txt", sampleCSV, decode.ErrUnsupportedFormat},
		{"header only", "user-1", "a.csv", "Symbol,Price\n", ingest.ErrEmptyInput},
		{"empty file", "user-1", "a.csv", "", ingest.ErrEmptyInput},
		{"bad date", "user-1", "a.csv", "Ngày GD,Mã CK,Loại GD,Khối lượng,Giá\n13/13/2024,VNM,Mua,1,1\n", ingest.ErrDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			svc := newService(store)

			batch, err := svc.Preview(context.Background(), tt.userID, tt.fileName, strings.NewReader(tt.body))
			assert.Nil(t, batch)
			assert.ErrorIs(t, err, tt.want)
			store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Preview_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Save", ctx, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := newService(store)
	_, err := svc.Preview(ctx, "user-1", "lenh.csv", strings.NewReader(sampleCSV))
	assert.ErrorContains(t, err, "redis down")
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	id := "7d8f3c3e-8f0b-4a5e-9a43-1f1b2f3c4d5e"
	stored := &upload.Batch{ID: id, UserID: "user-1"}

	tests := []struct {
		name      string
		id        string
		userID    string
		setupMock func(*MockStore)
		want      error
	}{
		{
			name:      "owner",
			id:        id,
			userID:    "user-1",
			setupMock: func(m *MockStore) { m.On("Get", ctx, id).Return(stored, nil) },
		},
		{
			name:      "other user",
			id:        id,
			userID:    "user-2",
			setupMock: func(m *MockStore) { m.On("Get", ctx, id).Return(stored, nil) },
			want:      upload.ErrBatchNotFound,
		},
		{
			name:      "expired",
			id:        id,
			userID:    "user-1",
			setupMock: func(m *MockStore) { m.On("Get", ctx, id).Return(nil, upload.ErrBatchNotFound) },
			want:      upload.ErrBatchNotFound,
		},
		{
			name:      "malformed id",
			id:        "not-a-uuid",
			userID:    "user-1",
			setupMock: func(m *MockStore) {},
			want:      upload.ErrBatchNotFound,
		},
		{
			name:      "missing user",
			id:        id,
			setupMock: func(m *MockStore) {},
			want:      upload.ErrMissingUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			tt.setupMock(store)
			svc := newService(store)

			batch, err := svc.Get(ctx, tt.id, tt.userID)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, batch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, batch.ID)
		})
	}
}
