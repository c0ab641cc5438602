package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-organizer/cmd/config"
	migration "recipe-organizer/cmd/database/migrate"
	"recipe-organizer/internal/utils"
	"recipe-organizer/internal/utils/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	migrate := flag.Bool("migrate", false, "run database migrations before serving")
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}

	if *migrate || *migrateOnly {
		if err := migration.Migrate(db); err != nil {
			zlog.Fatal("migrate database", zap.Error(err))
		}
		zlog.Info("database migration complete")
		if *migrateOnly {
			return
		}
	}

	app, err := config.NewApp(cfg, db, zlog)
	if err != nil {
		zlog.Fatal("build app", zap.Error(err))
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", cfg.Address()), zap.String("env", cfg.AppEnv))
		if err := app.Listen(cfg.Address()); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
