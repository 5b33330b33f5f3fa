package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validSub() Subscription {
	return Subscription{
		Name:         "Netflix",
		Cost:         decimal.RequireFromString("45"),
		Currency:     CNY,
		BillingCycle: Monthly,
		StartDate:    NewDate(2024, 1, 15),
		ExpiryDate:   NewDate(2025, 2, 15),
	}
}

func TestSubscriptionValidate(t *testing.T) {
	if err := validSub().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Subscription)
		want   error
	}{
		{"empty name", func(s *Subscription) { s.Name = "  " }, ErrEmptyName},
		{"negative cost", func(s *Subscription) { s.Cost = decimal.RequireFromString("-1") }, ErrNegativeCost},
		{"bad currency", func(s *Subscription) { s.Currency = "EUR" }, ErrInvalidCurrency},
		{"bad cycle", func(s *Subscription) { s.BillingCycle = "weekly" }, ErrInvalidCycle},
		{"zero expiry", func(s *Subscription) { s.ExpiryDate = time.Time{} }, ErrZeroExpiryDate},
	}
	for _, tc := range cases {
		s := validSub()
		tc.mutate(&s)
		if err := s.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// zero cost is allowed, negative is not
	s := validSub()
	s.Cost = decimal.Zero
	if err := s.Validate(); err != nil {
		t.Errorf("zero cost: got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"no reminder days", func(s *Settings) { s.ReminderDays = nil }, ErrInvalidReminder},
		{"zero lead day", func(s *Settings) { s.ReminderDays = []int{7, 0} }, ErrInvalidReminder},
		{"bad time", func(s *Settings) { s.NotifyTime = "9am" }, ErrInvalidTime},
		{"bad currency", func(s *Settings) { s.DefaultCurrency = "GBP" }, ErrInvalidCurrency},
		{"zero rate", func(s *Settings) { s.ExchangeRate = decimal.Zero }, ErrInvalidRate},
		{"negative rate", func(s *Settings) { s.ExchangeRate = decimal.RequireFromString("-7.2") }, ErrInvalidRate},
	}
	for _, tc := range cases {
		s := DefaultSettings()
		tc.mutate(&s)
		if err := s.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestParseNotifyTime(t *testing.T) {
	ct, err := ParseNotifyTime("09:30")
	if err != nil || ct.Hour != 9 || ct.Minute != 30 {
		t.Fatalf("got %+v err=%v", ct, err)
	}
	if _, err := ParseNotifyTime("25:00"); err == nil {
		t.Fatal("expected error for 25:00")
	}
}
