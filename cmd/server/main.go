package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse/internal/api"
	"github.com/pulsechat/pulse/internal/chat"
	"github.com/pulsechat/pulse/internal/config"
	"github.com/pulsechat/pulse/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Optional Redis history mirror
	var redisHist *store.RedisHistory
	if cfg.RedisURL != "" {
		var err error
		redisHist, err = store.NewRedisHistory(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisHist.Close()
		logger.Info().Msg("connected to Redis")
	}

	// Session coordinator
	opts := chat.Options{
		Rooms:       cfg.Rooms,
		DefaultRoom: cfg.DefaultRoom,
		UnreadScope: chat.UnreadScope(cfg.UnreadScope),
		Logger:      logger,
	}
	if redisHist != nil {
		opts.Mirror = redisHist
	}
	coord := chat.New(opts)

	// Create router
	router := api.NewRouter(logger, cfg, coord, redisHist)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Strs("rooms", cfg.Rooms).
			Str("default_room", cfg.DefaultRoom).
			Msg("starting pulse server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
