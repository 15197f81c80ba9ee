package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lettersort/internal/config"
	"github.com/robalobadob/lettersort/internal/httpserver"
	"github.com/robalobadob/lettersort/internal/logging"
	"github.com/robalobadob/lettersort/internal/shutdown"
	"github.com/robalobadob/lettersort/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	log.Logger = logger

	ctx, done := shutdown.New()
	defer done()
	ctx = logging.WithLogger(ctx, logger)

	st, err := store.NewMemoryStore(cfg.MaxSessions, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session store")
	}
	srv := httpserver.New(st, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		GameSeconds:    cfg.GameSeconds,
		DailySalt:      cfg.DailySalt,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})
	if err := srv.Run(ctx, ":"+cfg.Port, cfg.SweepInterval); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
