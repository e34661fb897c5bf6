package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/tradebook/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	h := middleware.RateLimit(0.001, 2)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_PerClient(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1)
	h := rl.Middleware(okHandler)

	for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.1:2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 2, rl.Visitors())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1"
	req.Header.Set("X-Forwarded-For", "10.0.0.2, 172.16.0.1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("test", &buf)

	h := middleware.Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
	assert.Contains(t, buf.String(), "Panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestLogger_CapturesErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("test", &buf)

	h := middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No file uploaded"}`))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/transactions/upload", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, buf.String(), "No file uploaded")
	assert.Contains(t, buf.String(), "status=400")
}

func TestLogger_ReportsFieldsSetByHandler(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithFormat("production", "", &buf)

	h := middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithUserID(r.Context(), "u1")
		logger.WithBatchID(ctx, "batch-9")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/upload", strings.NewReader("--boundary--"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=boundary")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"user_id":"u1"`)
	assert.Contains(t, out, `"batch_id":"batch-9"`)
	assert.Contains(t, out, `"content_type":"multipart/form-data; boundary=boundary"`)
	assert.Contains(t, out, `"request_bytes":12`)
	assert.Contains(t, out, `"status":200`)
}

func TestLogger_PropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithFormat("production", "", &buf)

	var seen any
	h := chimiddleware.RequestID(middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context().Value(logger.RequestIDKey)
	})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", seen)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.NotContains(t, buf.String(), "content_type")
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	h := middleware.CORS([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
