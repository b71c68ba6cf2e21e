package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"appointments/internal/config"
	"appointments/internal/database"
	"appointments/internal/modules/reaper"
	applog "appointments/internal/pkg/logger"
	"appointments/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := applog.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	r := reaper.New(repository.NewSlotHoldRepository(db), nil, logger)
	n, err := r.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		logger.Fatal("hold cleanup failed", zap.Error(err))
	}
	logger.Info("hold cleanup completed", zap.Int64("slot_holds", n))
}
