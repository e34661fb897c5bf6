package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kislikjeka/tradebook/internal/shared/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondAppError sends an AppError using its code and HTTP status
func respondAppError(w http.ResponseWriter, err *apperrors.AppError) {
	respondJSON(w, ErrorResponse{
		Error:   err.Message,
		Code:    err.Code,
		Details: err.Details,
	}, err.HTTPStatus())
}
