package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse/internal/api/middleware"
	"github.com/pulsechat/pulse/internal/chat"
	"github.com/pulsechat/pulse/internal/config"
	"github.com/pulsechat/pulse/internal/handlers"
	"github.com/pulsechat/pulse/internal/store"
	"github.com/pulsechat/pulse/internal/ws"
)

// NewRouter creates and configures the HTTP router: the websocket
// endpoint, the stateless history/presence API and operational endpoints.
func NewRouter(logger zerolog.Logger, cfg *config.Config, coord *chat.Coordinator, redisHist *store.RedisHistory) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	r.Use(middleware.SecurityHeaders)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS for the browser client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: cfg.ClientURL != "*",
		MaxAge:           300,
	}))

	h := handlers.NewHandler(coord, redisHist)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// Realtime transport
	r.Get("/ws", ws.Handler(coord, logger))

	// Stateless backfill API
	r.Get("/api/messages", h.GetMessages)
	r.Get("/api/users", h.GetUsers)
	r.Get("/api/stats", h.GetStats)

	return r
}
