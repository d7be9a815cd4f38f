package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/storefront-mcp/internal/config"
	jwtinfra "github.com/storefront-mcp/internal/infrastructure/jwt"
	"github.com/storefront-mcp/internal/transport/http/middleware"
	"github.com/storefront-mcp/internal/transport/mcp"
)

// NewRouter assembles the HTTP surface: health probe plus the MCP endpoints,
// optionally behind the bearer gate and per-IP rate limiter.
func NewRouter(cfg *config.Config, mcpServer *mcp.Server, jwtProvider *jwtinfra.Provider) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if cfg.RequireEndpointAuth && jwtProvider != nil {
			r.Use(middleware.Auth(jwtProvider))
		}
		if cfg.RateLimitEnabled {
			limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
			r.Use(limiter.Limit)
		}
		mcpServer.Routes(r)
	})

	return r
}
