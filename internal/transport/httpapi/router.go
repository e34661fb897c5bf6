package httpapi

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/tradebook/internal/transport/httpapi/handler"
	"github.com/kislikjeka/tradebook/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	RateLimitRPS       float64
	RateLimitBurst     int
	TransactionHandler *handler.TransactionHandler
	HealthHandler      *handler.HealthHandler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// Health check endpoints
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TransactionHandler != nil {
			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.List)
				r.Post("/upload", cfg.TransactionHandler.Upload)
				r.Post("/import", cfg.TransactionHandler.Import)
				r.Get("/previews/{id}", cfg.TransactionHandler.GetPreview)
			})
		}
	})

	return r
}
