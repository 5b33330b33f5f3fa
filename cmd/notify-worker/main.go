package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"subtracker/internal/amqp"
	"subtracker/internal/config"
	"subtracker/internal/log"
	"subtracker/internal/notify"
	"subtracker/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentNotify)
	log.SetDefault(logger)

	logger.Info("Starting notify-worker")

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

	// Delivery failures are recorded and acknowledged rather than requeued:
	// a bad bot token would otherwise cycle the same message forever. The
	// notification log is the place to spot failed sends.
	handler := func(msg *amqp.ReminderMessage) error {
		settings, err := repo.GetSettings(ctx)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}

		tg := notify.NewTelegramClient(cfg.TelegramAPIBaseURL, settings.TelegramBotToken, settings.TelegramChatID)
		text := notify.ReminderText(msg.Name, msg.ExpiryDate, msg.DaysLeft)

		sendErr := tg.Send(ctx, text)

		record := storage.Notification{
			ID:             uuid.New(),
			SubscriptionID: msg.SubscriptionID,
			NotifyType:     fmt.Sprintf("%dd", msg.DaysLeft),
			Message:        text,
			Success:        sendErr == nil,
			SentAt:         time.Now(),
		}
		if sendErr != nil {
			record.ErrorMessage = sendErr.Error()
			logger.ErrorContext(ctx, "Telegram delivery failed",
				"subscription_id", msg.SubscriptionID,
				"days_left", msg.DaysLeft,
				"error", sendErr)
		}
		if err := repo.RecordNotification(ctx, record); err != nil {
			return fmt.Errorf("record notification: %w", err)
		}
		return nil
	}

	if err := amqpClient.ConsumeReminders(ctx, handler); err != nil && err != context.Canceled {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Notify worker stopped gracefully")
}
