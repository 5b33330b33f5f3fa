package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"subtracker/internal/amqp"
	"subtracker/internal/config"
	"subtracker/internal/core"
	"subtracker/internal/log"
	"subtracker/internal/services"
	"subtracker/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentScanner)
	log.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subscriptions := services.NewSubscriptionService(repo)
	scanner := services.NewReminderScanner(repo, amqpClient)

	runScan := func() {
		now := time.Now()
		if _, err := subscriptions.RefreshStatuses(ctx, now); err != nil {
			logger.Error("Status refresh failed", "error", err)
		}
		published, err := scanner.Scan(ctx, now)
		if err != nil {
			logger.Error("Reminder scan failed", "error", err)
			return
		}
		logger.Info("Reminder scan finished", "published", published)
	}

	settings, err := repo.GetSettings(ctx)
	if err != nil {
		logger.Error("Failed to read settings", "error", err)
		os.Exit(1)
	}
	notifyAt, err := core.ParseNotifyTime(settings.NotifyTime)
	if err != nil {
		logger.Error("Invalid notify time in settings", "notify_time", settings.NotifyTime, "error", err)
		os.Exit(1)
	}

	// One scheduled scan per day at the configured notify time. The worker
	// reads the time at startup; changing it takes a restart.
	c := cron.New()
	spec := fmt.Sprintf("%d %d * * *", notifyAt.Minute, notifyAt.Hour)
	if _, err := c.AddFunc(spec, runScan); err != nil {
		logger.Error("Failed to schedule daily scan", "spec", spec, "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()
	logger.Info("Scheduled daily reminder scan", "spec", spec, "notify_time", settings.NotifyTime)

	if cfg.ScanOnStart {
		runScan()
	}

	if cfg.ScanInterval > 0 {
		ticker := time.NewTicker(cfg.ScanInterval)
		defer ticker.Stop()
		go func() {
			for {
				select {
				case <-ticker.C:
					runScan()
				case <-ctx.Done():
					return
				}
			}
		}()
		logger.Info("Periodic scanning enabled", "interval", cfg.ScanInterval)
	}

	<-ctx.Done()
	logger.Info("Reminder worker stopped gracefully")
}
