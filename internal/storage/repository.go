package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"subtracker/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

// Notification is one delivered (or failed) reminder, kept as an audit log.
type Notification struct {
	ID             uuid.UUID
	SubscriptionID uuid.UUID
	NotifyType     string // e.g. "7d"
	Message        string
	Success        bool
	ErrorMessage   string
	SentAt         time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const subscriptionColumns = `id, name, category_id, provider, cost, currency, billing_cycle, start_date, expiry_date, status, notes`

func scanSubscription(row interface{ Scan(...any) error }) (core.Subscription, error) {
	var (
		s          core.Subscription
		id         string
		categoryID sql.NullString
		cost       string
		startDate  sql.NullString
		expiryDate string
	)
	err := row.Scan(&id, &s.Name, &categoryID, &s.Provider, &cost, &s.Currency, &s.BillingCycle, &startDate, &expiryDate, &s.Status, &s.Notes)
	if err != nil {
		return s, err
	}

	if s.ID, err = uuid.Parse(id); err != nil {
		return s, fmt.Errorf("parse subscription id %q: %w", id, err)
	}
	if categoryID.Valid {
		if s.CategoryID, err = uuid.Parse(categoryID.String); err != nil {
			return s, fmt.Errorf("parse category id %q: %w", categoryID.String, err)
		}
	}
	if s.Cost, err = decimal.NewFromString(cost); err != nil {
		return s, fmt.Errorf("parse cost %q: %w", cost, err)
	}
	// Bad dates stay zero: the record is still listed, the engine skips it
	// from date-windowed aggregates and reports it via SkippedRecords.
	if startDate.Valid && startDate.String != "" {
		if d, err := core.ParseDate(startDate.String); err == nil {
			s.StartDate = d
		}
	}
	if d, err := core.ParseDate(expiryDate); err == nil {
		s.ExpiryDate = d
	}
	return s, nil
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY expiry_date`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []core.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SQLiteRepository) GetSubscription(ctx context.Context, id uuid.UUID) (core.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id.String())
	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	if err != nil {
		return s, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) CreateSubscription(ctx context.Context, s core.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), s.Name, nullableID(s.CategoryID), s.Provider, s.Cost.String(),
		string(s.Currency), string(s.BillingCycle), nullableDate(s.StartDate),
		s.ExpiryDate.Format("2006-01-02"), string(s.Status), s.Notes)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	slog.InfoContext(ctx, "Subscription saved",
		"subscription_id", s.ID, "name", s.Name, "expiry_date", s.ExpiryDate.Format("2006-01-02"))
	return nil
}

func (r *SQLiteRepository) UpdateSubscription(ctx context.Context, s core.Subscription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET name = ?, category_id = ?, provider = ?, cost = ?, currency = ?,
		    billing_cycle = ?, start_date = ?, expiry_date = ?, status = ?, notes = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		s.Name, nullableID(s.CategoryID), s.Provider, s.Cost.String(), string(s.Currency),
		string(s.BillingCycle), nullableDate(s.StartDate), s.ExpiryDate.Format("2006-01-02"),
		string(s.Status), s.Notes, s.ID.String())
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color, icon, sort_order FROM categories ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		var id string
		if err := rows.Scan(&id, &c.Name, &c.Color, &c.Icon, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse category id %q: %w", id, err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, icon, sort_order)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.Color, c.Icon, c.SortOrder)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ?, icon = ?, sort_order = ? WHERE id = ?`,
		c.Name, c.Color, c.Icon, c.SortOrder, c.ID.String())
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return checkAffected(res)
}

// DeleteCategory removes a category; its subscriptions survive orphaned.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE subscriptions SET category_id = NULL WHERE category_id = ?`, id.String()); err != nil {
		return fmt.Errorf("orphan subscriptions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// ReorderCategories rewrites sort_order to match the given id sequence.
func (r *SQLiteRepository) ReorderCategories(ctx context.Context, ids []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE categories SET sort_order = ? WHERE id = ?`, i, id.String()); err != nil {
			return fmt.Errorf("reorder category %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Settings keys
const (
	keyReminderDays     = "reminder_days"
	keyNotifyTime       = "notify_time"
	keyDefaultCurrency  = "default_currency"
	keyExchangeRate     = "exchange_rate"
	keyTelegramBotToken = "telegram_bot_token"
	keyTelegramChatID   = "telegram_chat_id"
)

// GetSettings reads persisted settings over the defaults. A malformed
// stored value is a configuration error, not something to clamp.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	s := core.DefaultSettings()

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return s, fmt.Errorf("scan setting: %w", err)
		}
		if !value.Valid {
			continue
		}
		switch key {
		case keyReminderDays:
			var days []int
			if err := json.Unmarshal([]byte(value.String), &days); err != nil {
				return s, fmt.Errorf("parse %s: %w", key, err)
			}
			s.ReminderDays = days
		case keyNotifyTime:
			s.NotifyTime = value.String
		case keyDefaultCurrency:
			c, err := core.ParseCurrency(value.String)
			if err != nil {
				return s, fmt.Errorf("parse %s: %w", key, err)
			}
			s.DefaultCurrency = c
		case keyExchangeRate:
			rate, err := core.ParseRate(value.String)
			if err != nil {
				return s, fmt.Errorf("parse %s: %w", key, err)
			}
			s.ExchangeRate = rate
		case keyTelegramBotToken:
			s.TelegramBotToken = value.String
		case keyTelegramChatID:
			s.TelegramChatID = value.String
		}
	}
	return s, rows.Err()
}

func (r *SQLiteRepository) UpdateSettings(ctx context.Context, s core.Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	days, err := json.Marshal(s.ReminderDays)
	if err != nil {
		return fmt.Errorf("marshal reminder days: %w", err)
	}

	values := map[string]string{
		keyReminderDays:     string(days),
		keyNotifyTime:       s.NotifyTime,
		keyDefaultCurrency:  string(s.DefaultCurrency),
		keyExchangeRate:     s.ExchangeRate.String(),
		keyTelegramBotToken: s.TelegramBotToken,
		keyTelegramChatID:   s.TelegramChatID,
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings update: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value)
		if err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) RecordNotification(ctx context.Context, n Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, subscription_id, notify_type, message, success, error_message, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID.String(), nullableID(n.SubscriptionID), n.NotifyType, n.Message,
		boolToInt(n.Success), n.ErrorMessage, n.SentAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context, limit int) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subscription_id, notify_type, message, success, error_message, sent_at
		FROM notifications ORDER BY sent_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var (
			n       Notification
			id      string
			subID   sql.NullString
			success int
			errMsg  sql.NullString
			sentAt  string
		)
		if err := rows.Scan(&id, &subID, &n.NotifyType, &n.Message, &success, &errMsg, &sentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if n.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse notification id %q: %w", id, err)
		}
		if subID.Valid {
			if n.SubscriptionID, err = uuid.Parse(subID.String); err != nil {
				return nil, fmt.Errorf("parse notification subscription id %q: %w", subID.String, err)
			}
		}
		n.Success = success != 0
		n.ErrorMessage = errMsg.String
		if t, err := time.Parse(time.RFC3339, sentAt); err == nil {
			n.SentAt = t
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// LoadSnapshot assembles the engine input from one consistent read.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, now time.Time) (core.Snapshot, error) {
	subs, err := r.ListSubscriptions(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}
	cats, err := r.ListCategories(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}
	settings, err := r.GetSettings(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}
	return core.Snapshot{Subscriptions: subs, Categories: cats, Settings: settings, Now: now}, nil
}

func nullableID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
