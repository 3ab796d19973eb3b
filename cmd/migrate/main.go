// migrate applies the embedded schema migrations: go run ./cmd/migrate -direction up
package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"tasktracker/backend/internal/config"
	"tasktracker/backend/internal/db/migrate"
	"tasktracker/backend/internal/logger"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("", "info", "migrate").Fatal("config", zap.Error(err))
	}
	log := logger.New(cfg.Env, cfg.LogLevel, "migrate")
	defer func() { _ = log.Sync() }()

	dir, err := migrate.ParseDirection(*direction)
	if err != nil {
		log.Error("invalid direction", zap.Error(err))
		os.Exit(2)
	}
	if err := migrate.Run(cfg.DatabaseURL, dir); err != nil {
		log.Error("migrate failed", zap.String("direction", string(dir)), zap.Error(err))
		os.Exit(1)
	}
	log.Info("migrations applied", zap.String("direction", string(dir)))
}
