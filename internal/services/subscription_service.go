package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subtracker/internal/core"
	"subtracker/internal/storage"

	"github.com/google/uuid"
)

// SubscriptionService is the single write path for subscriptions. Every
// mutation recomputes the stored status from the expiry date, so the
// denormalized column can lag at most until the next write or scan and
// is never trusted by the aggregation code anyway.
type SubscriptionService struct {
	storage *storage.SQLiteRepository
}

func NewSubscriptionService(storage *storage.SQLiteRepository) *SubscriptionService {
	return &SubscriptionService{storage: storage}
}

func (s *SubscriptionService) Create(ctx context.Context, sub core.Subscription, now time.Time) (core.Subscription, error) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.Status = core.StatusOf(sub.ExpiryDate, now)

	if err := sub.Validate(); err != nil {
		return core.Subscription{}, fmt.Errorf("validate subscription: %w", err)
	}
	if err := s.storage.CreateSubscription(ctx, sub); err != nil {
		return core.Subscription{}, err
	}
	return sub, nil
}

func (s *SubscriptionService) Update(ctx context.Context, sub core.Subscription, now time.Time) (core.Subscription, error) {
	sub.Status = core.StatusOf(sub.ExpiryDate, now)

	if err := sub.Validate(); err != nil {
		return core.Subscription{}, fmt.Errorf("validate subscription: %w", err)
	}
	if err := s.storage.UpdateSubscription(ctx, sub); err != nil {
		return core.Subscription{}, err
	}
	return sub, nil
}

// Renew advances the expiry by one billing cycle in calendar terms, so a
// monthly plan expiring Jan 31 renews to the end-of-February normalization
// that time.AddDate gives, not a fixed day count.
func (s *SubscriptionService) Renew(ctx context.Context, id uuid.UUID, now time.Time) (core.Subscription, error) {
	sub, err := s.storage.GetSubscription(ctx, id)
	if err != nil {
		return core.Subscription{}, err
	}

	sub.ExpiryDate = core.NextExpiry(sub.ExpiryDate, sub.BillingCycle)
	sub.Status = core.StatusOf(sub.ExpiryDate, now)

	if err := s.storage.UpdateSubscription(ctx, sub); err != nil {
		return core.Subscription{}, err
	}

	slog.InfoContext(ctx, "Subscription renewed",
		"subscription_id", sub.ID,
		"name", sub.Name,
		"new_expiry", sub.ExpiryDate.Format("2006-01-02"))
	return sub, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.storage.DeleteSubscription(ctx, id)
}

// RefreshStatuses recomputes the stored status of every subscription and
// rewrites the rows that drifted. Returns how many rows were touched.
func (s *SubscriptionService) RefreshStatuses(ctx context.Context, now time.Time) (int, error) {
	subs, err := s.storage.ListSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}

	refreshed := 0
	for _, sub := range subs {
		status := core.StatusOf(sub.ExpiryDate, now)
		if status == sub.Status {
			continue
		}
		sub.Status = status
		if err := s.storage.UpdateSubscription(ctx, sub); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh subscription status",
				"subscription_id", sub.ID, "error", err)
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		slog.InfoContext(ctx, "Refreshed subscription statuses", "count", refreshed)
	}
	return refreshed, nil
}
