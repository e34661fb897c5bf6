package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/tradebook/pkg/logger"
)

// maxCapturedBody bounds how much of an error response is kept for the log
const maxCapturedBody = 4 << 10

// errorBody tees the body of 4xx/5xx responses so the access log can report
// the error message the client saw.
type errorBody struct {
	chimiddleware.WrapResponseWriter
	buf bytes.Buffer
}

func (e *errorBody) Write(b []byte) (int, error) {
	if e.Status() >= http.StatusBadRequest && e.buf.Len() < maxCapturedBody {
		e.buf.Write(b[:min(len(b), maxCapturedBody-e.buf.Len())])
	}
	return e.WrapResponseWriter.Write(b)
}

// errorMessage returns the "error" field of an ErrorResponse body
func (e *errorBody) errorMessage() string {
	var resp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.buf.Bytes(), &resp) != nil {
		return ""
	}
	return resp.Error
}

// Logger writes one access log line per request. The line carries the
// request, user and batch IDs the handlers attached to the request context,
// and the size and content type of any request body.
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &errorBody{WrapResponseWriter: chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)}

			ctx := logger.WithRequestFields(r.Context())
			if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
				ctx = context.WithValue(ctx, logger.RequestIDKey, reqID)
			}
			r = r.WithContext(ctx)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				}
				if r.ContentLength > 0 {
					attrs = append(attrs,
						"content_type", r.Header.Get("Content-Type"),
						"request_bytes", r.ContentLength,
					)
				}
				if status >= http.StatusBadRequest {
					if msg := ww.errorMessage(); msg != "" {
						attrs = append(attrs, "error", msg)
					}
				}

				reqLog := log.WithContext(ctx)
				switch {
				case status >= http.StatusInternalServerError:
					reqLog.Error("HTTP request", attrs...)
				case status >= http.StatusBadRequest:
					reqLog.Warn("HTTP request", attrs...)
				default:
					reqLog.Info("HTTP request", attrs...)
				}
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
