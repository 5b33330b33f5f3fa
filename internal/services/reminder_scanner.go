package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subtracker/internal/amqp"
	"subtracker/internal/core"
	"subtracker/internal/storage"
)

// ReminderPublisher is what the scanner needs from the AMQP client.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}

// ReminderScanner walks all subscriptions once per run and publishes a
// reminder for each one sitting exactly on a configured lead day. Running
// the scan more than once a day republishes the same reminders; dedup is
// the notify worker's problem, not the scanner's.
type ReminderScanner struct {
	storage   *storage.SQLiteRepository
	publisher ReminderPublisher
}

func NewReminderScanner(storage *storage.SQLiteRepository, publisher ReminderPublisher) *ReminderScanner {
	return &ReminderScanner{storage: storage, publisher: publisher}
}

// Scan publishes reminders for subscriptions whose days-left matches one of
// the configured lead days. Returns the number of reminders published.
func (s *ReminderScanner) Scan(ctx context.Context, now time.Time) (int, error) {
	if s.storage == nil || s.publisher == nil {
		return 0, fmt.Errorf("scanner not properly initialized")
	}

	snap, err := s.storage.LoadSnapshot(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Scanning subscriptions for reminders",
		"total", len(snap.Subscriptions),
		"lead_days", snap.Settings.ReminderDays,
		"scan_date", now.Format("2006-01-02"))

	published := 0
	for _, sub := range snap.Subscriptions {
		if sub.ExpiryDate.IsZero() {
			continue
		}
		daysLeft := core.DaysLeft(sub.ExpiryDate, now)
		if !matchesLeadDay(daysLeft, snap.Settings.ReminderDays) {
			continue
		}

		msg := amqp.NewReminderMessage(sub.ID, sub.Name, sub.ExpiryDate, daysLeft)
		if err := s.publisher.PublishReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"subscription_id", sub.ID,
				"days_left", daysLeft,
				"error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Reminder scan complete",
		"published", published,
		"total_checked", len(snap.Subscriptions))
	return published, nil
}

func matchesLeadDay(daysLeft int, leadDays []int) bool {
	for _, d := range leadDays {
		if daysLeft == d {
			return true
		}
	}
	return false
}
