package http

import (
	"log/slog"
	"net/http"
	"time"

	"subtracker/internal/core"

	"github.com/google/uuid"
)

// criticalDays marks reminders the dashboard renders in red.
const criticalDays = 3

const (
	defaultExpiringDays = 7
	defaultTrendMonths  = 6
	maxTrendMonths      = 60
)

type moneyByCurrency struct {
	CNY string `json:"cny"`
	USD string `json:"usd"`
}

type overviewResponse struct {
	TotalServices     int             `json:"total_services"`
	ActiveServices    int             `json:"active_services"`
	ExpiringThisMonth int             `json:"expiring_this_month"`
	MonthlyExpense    moneyByCurrency `json:"monthly_expense"`
}

func (s *Server) snapshot(r *http.Request) (core.Snapshot, error) {
	return s.storage.LoadSnapshot(r.Context(), s.now())
}

func (s *Server) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute overview")
		return
	}

	stats := core.ComputeDashboardStats(snap)
	writeJSON(w, http.StatusOK, overviewResponse{
		TotalServices:     stats.TotalServices,
		ActiveServices:    stats.ActiveServices,
		ExpiringThisMonth: stats.ExpiringThisMonth,
		MonthlyExpense: moneyByCurrency{
			CNY: stats.MonthlyExpense.CNY.StringFixed(2),
			USD: stats.MonthlyExpense.USD.StringFixed(2),
		},
	})
}

type expiringItem struct {
	subscriptionResponse
	Critical bool `json:"critical"`
}

func (s *Server) handleStatsExpiring(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", defaultExpiringDays)
	if days < 0 {
		writeError(w, http.StatusUnprocessableEntity, "days must not be negative")
		return
	}

	snap, err := s.snapshot(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute expiring list")
		return
	}

	now := snap.Now
	out := make([]expiringItem, 0)
	for _, sub := range core.ExpiringWithin(snap, days) {
		item := expiringItem{subscriptionResponse: toSubscriptionResponse(sub, now)}
		item.Critical = item.DaysLeft <= criticalDays
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

type trendPointResponse struct {
	Key   string `json:"key"`
	Month string `json:"month"`
	CNY   string `json:"cny"`
	USD   string `json:"usd"`
}

func (s *Server) handleStatsTrend(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", defaultTrendMonths)
	if months <= 0 || months > maxTrendMonths {
		writeError(w, http.StatusUnprocessableEntity, "months out of range")
		return
	}

	snap, err := s.snapshot(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute trend")
		return
	}

	out := make([]trendPointResponse, 0, months)
	for _, p := range core.ComputeExpenseTrend(snap, months) {
		out = append(out, trendPointResponse{
			Key:   p.Key,
			Month: p.Month,
			CNY:   p.CNY.StringFixed(2),
			USD:   p.USD.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryCountResponse struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

func (s *Server) handleStatsCategories(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute category distribution")
		return
	}

	out := make([]categoryCountResponse, 0)
	for _, c := range core.CategoryDistribution(snap) {
		out = append(out, categoryCountResponse{Name: c.Name, Value: c.Value, Color: c.Color})
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryValueResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Color string `json:"color"`
}

func (s *Server) handleStatsCategoryValues(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute category values")
		return
	}

	target := snap.Settings.DefaultCurrency
	if v := r.URL.Query().Get("currency"); v != "" {
		c, err := core.ParseCurrency(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		target = c
	}

	out := make([]categoryValueResponse, 0)
	for _, c := range core.CategoryValues(snap, target) {
		out = append(out, categoryValueResponse{Name: c.Name, Value: c.Value.StringFixed(2), Color: c.Color})
	}
	writeJSON(w, http.StatusOK, out)
}

type calendarDay struct {
	Date          string                 `json:"date"`
	Subscriptions []subscriptionResponse `json:"subscriptions"`
}

// handleCalendar lists the days of one month that have expiries on them.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		writeError(w, http.StatusUnprocessableEntity, "month out of range")
		return
	}

	snap, err := s.snapshot(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute calendar")
		return
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	byDay := map[string][]subscriptionResponse{}
	for _, sub := range snap.Subscriptions {
		if sub.ExpiryDate.IsZero() {
			continue
		}
		if sub.ExpiryDate.Before(monthStart) || !sub.ExpiryDate.Before(monthEnd) {
			continue
		}
		key := sub.ExpiryDate.Format("2006-01-02")
		byDay[key] = append(byDay[key], toSubscriptionResponse(sub, now))
	}

	out := make([]calendarDay, 0, len(byDay))
	for d := monthStart; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if subs, ok := byDay[key]; ok {
			out = append(out, calendarDay{Date: key, Subscriptions: subs})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type notificationResponse struct {
	ID             string `json:"id"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	NotifyType     string `json:"notify_type"`
	Message        string `json:"message"`
	Success        bool   `json:"success"`
	ErrorMessage   string `json:"error_message,omitempty"`
	SentAt         string `json:"sent_at"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit <= 0 || limit > 500 {
		writeError(w, http.StatusUnprocessableEntity, "limit out of range")
		return
	}

	notifications, err := s.storage.ListNotifications(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := notificationResponse{
			ID:           n.ID.String(),
			NotifyType:   n.NotifyType,
			Message:      n.Message,
			Success:      n.Success,
			ErrorMessage: n.ErrorMessage,
			SentAt:       n.SentAt.Format(time.RFC3339),
		}
		if n.SubscriptionID != uuid.Nil {
			resp.SubscriptionID = n.SubscriptionID.String()
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}
