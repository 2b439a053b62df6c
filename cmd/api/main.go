package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fitboard/backend/internal/config"
	"github.com/fitboard/backend/internal/logger"
	"github.com/fitboard/backend/internal/server"
)

func main() {
	dotenvFiles := config.LoadDotEnv()

	cfg, err := config.Load()
	logger.Init(getEnvName(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().Strs("env_files", dotenvFiles).Str("env", cfg.Env).Msg("configuration loaded")

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	httpServer := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	if err := srv.DB().Close(); err != nil {
		log.Error().Err(err).Msg("error closing database pool")
	}
	log.Info().Msg("database pool closed")
}

func getEnvName(cfg *config.Config) string {
	if cfg == nil {
		return "development"
	}
	return cfg.Env
}
