package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"appointments/internal/config"
	"appointments/internal/database"
	"appointments/internal/modules/reaper"
	applog "appointments/internal/pkg/logger"
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
		logger.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migrate failed", zap.Error(err))
	}

	gate := newReaperGate(cfg, logger)
	router := newRouter(cfg, db, gate, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

// newReaperGate shares the purge cooldown through redis when REDIS_ADDR is
// set and falls back to a per-process gate otherwise.
func newReaperGate(cfg *config.Config, logger *zap.Logger) reaper.Gate {
	if cfg.RedisAddr == "" {
		return reaper.NewMemoryGate(cfg.ReaperCooldown)
	}
	client, err := reaper.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, using in-process reaper gate", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return reaper.NewMemoryGate(cfg.ReaperCooldown)
	}
	logger.Info("reaper gate backed by redis", zap.String("addr", cfg.RedisAddr))
	return reaper.NewRedisGate(client, cfg.ReaperCooldown, logger)
}
