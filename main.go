package main

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordzapp/assets"
	"github.com/robalobadob/wordzapp/internal/config"
	"github.com/robalobadob/wordzapp/internal/database"
	"github.com/robalobadob/wordzapp/internal/httpserver"
	"github.com/robalobadob/wordzapp/internal/progress"
	"github.com/robalobadob/wordzapp/internal/session"
	"github.com/robalobadob/wordzapp/internal/sound"
	"github.com/robalobadob/wordzapp/internal/store"
	"github.com/robalobadob/wordzapp/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var packs fs.FS = assets.Packs()
	if cfg.WordsDir != "" {
		packs = os.DirFS(cfg.WordsDir)
		log.Info().Str("dir", cfg.WordsDir).Msg("using word packs from disk")
	}
	loader := words.NewLoader(packs)
	if _, err := loader.Load(context.Background(), "standard"); err != nil {
		log.Fatal().Err(err).Msg("failed to load word packs")
	}

	tracker := progress.NewTracker(openProgressStore(cfg.DatabasePath))

	sessions := store.NewMemoryStore()
	go store.RunSweeper(context.Background(), sessions, time.Minute, cfg.SessionTTL)

	srv := httpserver.New(httpserver.Deps{
		Config:      cfg,
		Sessions:    sessions,
		Loader:      loader,
		Tracker:     tracker,
		HostOptions: session.Options{Sound: sound.NewLogPlayer()},
	})
	log.Info().Str("port", cfg.Port).Msg("starting wordzapp")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openProgressStore opens the SQLite progress store. Progress is only a
// nicety, so a broken database falls back to memory instead of exiting.
func openProgressStore(path string) progress.Store {
	db, err := database.Open(path)
	if err == nil {
		err = database.Migrate(db, assets.Migrations())
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("progress database unavailable; progress will not survive restarts")
		return progress.NewMemoryStore()
	}
	log.Info().Str("path", path).Msg("progress database ready")
	return progress.NewSQLiteStore(db)
}
