package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/kislikjeka/tradebook/internal/shared/errors"
	"github.com/kislikjeka/tradebook/internal/trade"
	"github.com/kislikjeka/tradebook/internal/upload"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

// multipartMemory is how much of a multipart form is kept in memory before
// spilling to temporary files
const multipartMemory = 8 << 20

// PreviewServiceInterface defines the upload operations needed by TransactionHandler
type PreviewServiceInterface interface {
	Preview(ctx context.Context, userID, fileName string, r io.Reader) (*upload.Batch, error)
	Get(ctx context.Context, id, userID string) (*upload.Batch, error)
}

// CommitServiceInterface defines the commit and read operations needed by TransactionHandler
type CommitServiceInterface interface {
	Commit(ctx context.Context, userID string, subs []trade.Submission, opts trade.CommitOptions) (*trade.CommitResult, error)
	List(ctx context.Context, userID string) ([]trade.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	previews       PreviewServiceInterface
	commits        CommitServiceInterface
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(previews PreviewServiceInterface, commits CommitServiceInterface, maxUploadBytes int64, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		previews:       previews,
		commits:        commits,
		maxUploadBytes: maxUploadBytes,
		logger:         log.WithField("component", "http"),
	}
}

// ImportRequest represents the commit request
type ImportRequest struct {
	UserID                 string             `json:"userId"`
	Transactions           *[]json.RawMessage `json:"transactions"`
	IgnoreNegativeBalances bool               `json:"ignoreNegativeBalances"`
}

// TransactionListResponse represents a user's committed transactions
type TransactionListResponse struct {
	Transactions []trade.Transaction `json:"transactions"`
	Total        int                 `json:"total"`
}

// Upload handles POST /transactions/upload
func (h *TransactionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, apperrors.PayloadTooLarge("File is too large"))
			return
		}
		h.fail(w, r, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	userID := r.FormValue("userId")
	if userID == "" {
		h.fail(w, r, upload.ErrMissingUserID)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, apperrors.BadRequest("No file uploaded"))
		return
	}
	defer file.Close()

	ctx := logger.WithUserID(r.Context(), userID)
	batch, err := h.previews.Preview(ctx, userID, header.Filename, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, batch, http.StatusOK)
}

// GetPreview handles GET /transactions/previews/{id}
func (h *TransactionHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		h.fail(w, r, upload.ErrMissingUserID)
		return
	}

	id := chi.URLParam(r, "id")
	ctx := logger.WithBatchID(logger.WithUserID(r.Context(), userID), id)

	batch, err := h.previews.Get(ctx, id, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, batch, http.StatusOK)
}

// Import handles POST /transactions/import
func (h *TransactionHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, apperrors.PayloadTooLarge("Request body is too large"))
			return
		}
		h.fail(w, r, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request format").
			WithDetails(err.Error()))
		return
	}

	if req.UserID == "" {
		h.fail(w, r, trade.ErrMissingUserID)
		return
	}

	if req.Transactions == nil {
		h.fail(w, r, apperrors.BadRequest("Invalid request format").
			WithDetails("transactions must be an array"))
		return
	}

	subs := make([]trade.Submission, len(*req.Transactions))
	for i, raw := range *req.Transactions {
		subs[i] = trade.DecodeSubmission(raw)
	}

	ctx := logger.WithUserID(r.Context(), req.UserID)
	result, err := h.commits.Commit(ctx, req.UserID, subs, trade.CommitOptions{
		IgnoreNegativeBalances: req.IgnoreNegativeBalances,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, result, http.StatusOK)
}

// List handles GET /transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		h.fail(w, r, trade.ErrMissingUserID)
		return
	}

	txs, err := h.commits.List(logger.WithUserID(r.Context(), userID), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, TransactionListResponse{
		Transactions: txs,
		Total:        len(txs),
	}, http.StatusOK)
}

func (h *TransactionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := toAppError(err)
	if appErr.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.WithContext(r.Context()).WithError(err).Error("request failed")
	}
	respondAppError(w, appErr)
}
