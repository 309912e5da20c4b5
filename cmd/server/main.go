package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"partyhub/internal/config"
	"partyhub/internal/db"
	"partyhub/internal/rooms"
	"partyhub/internal/server"
	"partyhub/internal/wshub"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	clock := clockwork.NewRealClock()
	hub := wshub.NewHub()
	store := rooms.NewStore(hub, clock, time.Duration(cfg.CleanupGraceSecs)*time.Second)

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("database unavailable, running without persistence")
			database = nil
		} else if err := database.Migrate(); err != nil {
			log.Warn().Err(err).Msg("migration failed")
		}
	} else {
		log.Info().Msg("PARTY_DATABASE_URL not set, running without persistence")
	}

	srv := server.New(cfg, store, hub, database, clock)

	log.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
