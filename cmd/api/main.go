package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/decoynet/decoynet/internal/config"
	"github.com/decoynet/decoynet/internal/database"
	"github.com/decoynet/decoynet/internal/logger"
	"github.com/decoynet/decoynet/internal/server"
	"github.com/decoynet/decoynet/internal/version"
)

func main() {
	// Setup logging with rotation
	logDir := "/app/data/logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fallback to local directory if /app/data fails (e.g. local dev)
		logDir = "data/logs"
		_ = os.MkdirAll(logDir, 0755)
	}

	logFile := filepath.Join(logDir, "decoynet.log")
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	mw := io.MultiWriter(os.Stdout, rotator)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(cfg.Environment == "development", mw)
	logger.Log().Infof("starting %s backend version %s", version.Name, version.Full())

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	// Optional scheduled simulation drill. Keeps the pipeline exercised and
	// the dashboard populated without live attackers.
	if cfg.SimulationSchedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.SimulationSchedule, func() {
			logger.WithFields(map[string]interface{}{"scenario": cfg.SimulationDrill}).Info("Running scheduled simulation drill")
			if _, err := srv.Simulations.Start(cfg.SimulationDrill); err != nil {
				logger.Log().WithError(err).Error("Scheduled simulation drill failed")
			}
		})
		if err != nil {
			log.Fatalf("invalid DECOY_SIM_SCHEDULE: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
