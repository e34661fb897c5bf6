package handler

import (
	"errors"

	"github.com/kislikjeka/tradebook/internal/decode"
	"github.com/kislikjeka/tradebook/internal/ingest"
	apperrors "github.com/kislikjeka/tradebook/internal/shared/errors"
	"github.com/kislikjeka/tradebook/internal/trade"
	"github.com/kislikjeka/tradebook/internal/upload"
)

// RowErrorDetails describes the row that aborted an upload
type RowErrorDetails struct {
	RowIndex int    `json:"rowIndex"`
	Message  string `json:"message"`
}

// toAppError maps domain errors to their HTTP representation
func toAppError(err error) *apperrors.AppError {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr
	}

	var rowErr *ingest.RowProcessingError

	switch {
	case errors.Is(err, upload.ErrMissingUserID), errors.Is(err, trade.ErrMissingUserID):
		return apperrors.Validation("userId is required").
			WithDetails("Please provide a userId in the request")
	case errors.Is(err, decode.ErrUnsupportedFormat):
		return apperrors.UnsupportedFormat("Unsupported file format")
	case errors.Is(err, ingest.ErrEmptyInput):
		return apperrors.EmptyInput("File is empty or has no valid data")
	case errors.Is(err, decode.ErrMalformed):
		return apperrors.Parse("Failed to process file", err).WithDetails(err.Error())
	case errors.As(err, &rowErr):
		return apperrors.Parse("Failed to process file", err).WithDetails(RowErrorDetails{
			RowIndex: rowErr.RowIndex,
			Message:  rowErr.Err.Error(),
		})
	case errors.Is(err, upload.ErrBatchNotFound):
		return apperrors.NotFound("preview batch")
	case errors.Is(err, trade.ErrDuplicateID):
		return apperrors.Conflict("transaction already exists")
	default:
		return apperrors.Internal("internal server error", err)
	}
}
