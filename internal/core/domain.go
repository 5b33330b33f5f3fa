package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CNY Currency = "CNY"
	USD Currency = "USD"
)

const (
	Monthly   BillingCycle = "monthly"
	Quarterly BillingCycle = "quarterly"
	Yearly    BillingCycle = "yearly"
)

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring-soon"
	StatusExpiring     Status = "expiring"
	StatusExpired      Status = "expired"
)

type (
	Currency     string
	BillingCycle string
	Status       string

	// Subscription is a recurring paid service tracked by the user.
	// Status is a denormalized cache of StatusOf(ExpiryDate, now); it is
	// refreshed by the service layer on every mutation and must never be
	// trusted for aggregation.
	Subscription struct {
		ID           uuid.UUID
		Name         string
		CategoryID   uuid.UUID // uuid.Nil means uncategorized
		Provider     string
		Cost         decimal.Decimal
		Currency     Currency
		BillingCycle BillingCycle
		StartDate    time.Time // zero means unknown
		ExpiryDate   time.Time
		Status       Status
		Notes        string
	}

	Category struct {
		ID        uuid.UUID
		Name      string
		Color     string
		Icon      string
		SortOrder int
	}

	// Settings holds the user-editable configuration consumed by the
	// engine and the reminder pipeline.
	Settings struct {
		ReminderDays     []int  // days before expiry at which to notify
		NotifyTime       string // "HH:MM"
		DefaultCurrency  Currency
		ExchangeRate     decimal.Decimal // CNY per 1 USD
		TelegramBotToken string
		TelegramChatID   string
	}

	// Snapshot is the immutable input to every derived-state computation:
	// a consistent view of all records plus a fixed reference time.
	Snapshot struct {
		Subscriptions []Subscription
		Categories    []Category
		Settings      Settings
		Now           time.Time
	}

	// ClockTime is an hour/minute pair parsed from a notify time value.
	ClockTime struct {
		Hour   int
		Minute int
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrNegativeCost    = errors.New("negative cost")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidCycle    = errors.New("invalid billing cycle")
	ErrZeroExpiryDate  = errors.New("expiry date not set")
	ErrInvalidRate     = errors.New("exchange rate must be positive")
	ErrInvalidReminder = errors.New("reminder days must be positive")
	ErrInvalidTime     = errors.New("notify time must be HH:MM")
)

func (c Currency) Valid() bool {
	return c == CNY || c == USD
}

func (b BillingCycle) Valid() bool {
	return b == Monthly || b == Quarterly || b == Yearly
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if s.Cost.IsNegative() {
		return ErrNegativeCost
	}
	if !s.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if !s.BillingCycle.Valid() {
		return ErrInvalidCycle
	}
	if s.ExpiryDate.IsZero() {
		return ErrZeroExpiryDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 50 {
		return errors.New("name too long (max 50 characters)")
	}
	return nil
}

func (s Settings) Validate() error {
	if len(s.ReminderDays) == 0 {
		return ErrInvalidReminder
	}
	for _, d := range s.ReminderDays {
		if d <= 0 {
			return ErrInvalidReminder
		}
	}
	if _, err := ParseNotifyTime(s.NotifyTime); err != nil {
		return err
	}
	if !s.DefaultCurrency.Valid() {
		return ErrInvalidCurrency
	}
	if !s.ExchangeRate.IsPositive() {
		return ErrInvalidRate
	}
	return nil
}

// ParseNotifyTime parses an "HH:MM" clock value.
func ParseNotifyTime(v string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return ClockTime{}, ErrInvalidTime
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// NewDate creates a calendar date at midnight UTC.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(v))
}

// DefaultSettings mirrors the initial user configuration.
func DefaultSettings() Settings {
	return Settings{
		ReminderDays:    []int{7, 3, 1},
		NotifyTime:      "09:00",
		DefaultCurrency: CNY,
		ExchangeRate:    decimal.RequireFromString("7.2"),
	}
}
