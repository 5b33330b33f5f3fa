package memory

import (
	"context"
	"testing"
	"time"

	"subtracker/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestWriteBackup(t *testing.T) {
	store := New()
	snap := core.Snapshot{
		Subscriptions: []core.Subscription{
			{ID: uuid.New(), Name: "Netflix", Cost: decimal.RequireFromString("29.99"),
				Currency: core.CNY, BillingCycle: core.Monthly, ExpiryDate: core.NewDate(2025, 3, 1)},
		},
		Settings: core.DefaultSettings(),
		Now:      time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	rows, err := store.WriteBackup(context.Background(), snap)
	if err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}

	backups := store.Backups()
	if len(backups) != 1 || backups[0].Subscriptions[0].Name != "Netflix" {
		t.Errorf("backups = %+v", backups)
	}
}
