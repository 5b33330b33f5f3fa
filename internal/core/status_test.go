package core

import (
	"testing"
	"time"
)

func TestStatusOfBoundaries(t *testing.T) {
	now := NewDate(2025, 2, 10)
	cases := []struct {
		days int
		want Status
	}{
		{-2, StatusExpired},
		{-1, StatusExpired},
		{0, StatusExpiring}, // expires today, not expired
		{1, StatusExpiring},
		{3, StatusExpiring},
		{4, StatusExpiringSoon},
		{7, StatusExpiringSoon},
		{8, StatusActive},
		{365, StatusActive},
	}
	for _, tc := range cases {
		expiry := now.AddDate(0, 0, tc.days)
		if got := StatusOf(expiry, now); got != tc.want {
			t.Errorf("days=%d: got %s, want %s", tc.days, got, tc.want)
		}
		if got := DaysLeft(expiry, now); got != tc.days {
			t.Errorf("DaysLeft days=%d: got %d", tc.days, got)
		}
	}
}

func TestStatusOfExpiresLaterToday(t *testing.T) {
	// Midday "now" against a midnight expiry date still classifies the
	// expiry day itself as expiring.
	now := time.Date(2025, 2, 10, 14, 30, 0, 0, time.UTC)
	expiry := NewDate(2025, 2, 10)
	if got := StatusOf(expiry, now); got != StatusExpiring {
		t.Fatalf("got %s, want %s", got, StatusExpiring)
	}
}

func TestStatusOfPartitions(t *testing.T) {
	// Every daysLeft value maps to exactly one status.
	now := NewDate(2025, 6, 1)
	for d := -30; d <= 30; d++ {
		st := StatusOf(now.AddDate(0, 0, d), now)
		switch st {
		case StatusExpired, StatusExpiring, StatusExpiringSoon, StatusActive:
		default:
			t.Fatalf("days=%d: unexpected status %q", d, st)
		}
	}
}

func TestNextExpiry(t *testing.T) {
	base := NewDate(2025, 1, 31)
	cases := []struct {
		cycle BillingCycle
		want  time.Time
	}{
		{Monthly, NewDate(2025, 3, 3)}, // Jan 31 + 1 month normalizes past Feb
		{Quarterly, NewDate(2025, 5, 1)},
		{Yearly, NewDate(2026, 1, 31)},
	}
	for _, tc := range cases {
		if got := NextExpiry(base, tc.cycle); !got.Equal(tc.want) {
			t.Errorf("%s: got %s, want %s", tc.cycle, got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}

	mid := NewDate(2025, 2, 15)
	if got := NextExpiry(mid, Monthly); !got.Equal(NewDate(2025, 3, 15)) {
		t.Errorf("monthly mid-month: got %s", got.Format("2006-01-02"))
	}
}
