package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"subtracker/internal/core"
	"subtracker/internal/storage"

	"github.com/google/uuid"
)

type subscriptionRequest struct {
	Name         string `json:"name"`
	CategoryID   string `json:"category_id"`
	Provider     string `json:"provider"`
	Cost         string `json:"cost"`
	Currency     string `json:"currency"`
	BillingCycle string `json:"billing_cycle"`
	StartDate    string `json:"start_date"`
	ExpiryDate   string `json:"expiry_date"`
	Notes        string `json:"notes"`
}

type subscriptionResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryID   string    `json:"category_id,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	Cost         string    `json:"cost"`
	Currency     string    `json:"currency"`
	BillingCycle string    `json:"billing_cycle"`
	StartDate    string    `json:"start_date,omitempty"`
	ExpiryDate   string    `json:"expiry_date"`
	Status       string    `json:"status"`
	DaysLeft     int       `json:"days_left"`
	Notes        string    `json:"notes,omitempty"`
}

func (req subscriptionRequest) toSubscription() (core.Subscription, error) {
	var sub core.Subscription
	var err error

	sub.Name = sanitizeInput(req.Name)
	sub.Provider = sanitizeInput(req.Provider)
	sub.Notes = sanitizeInput(req.Notes)

	if req.CategoryID != "" {
		if sub.CategoryID, err = uuid.Parse(req.CategoryID); err != nil {
			return sub, errors.New("invalid category_id")
		}
	}
	if sub.Cost, err = core.ParseCost(req.Cost); err != nil {
		return sub, err
	}
	if sub.Currency, err = core.ParseCurrency(req.Currency); err != nil {
		return sub, err
	}
	if sub.BillingCycle, err = core.ParseBillingCycle(req.BillingCycle); err != nil {
		return sub, err
	}
	if req.StartDate != "" {
		if sub.StartDate, err = core.ParseDate(req.StartDate); err != nil {
			return sub, errors.New("invalid start_date")
		}
	}
	if req.ExpiryDate != "" {
		if sub.ExpiryDate, err = core.ParseDate(req.ExpiryDate); err != nil {
			return sub, errors.New("invalid expiry_date")
		}
	}
	return sub, nil
}

// Status and days-left come from the expiry date at response time, never
// from the stored column.
func toSubscriptionResponse(sub core.Subscription, now time.Time) subscriptionResponse {
	resp := subscriptionResponse{
		ID:           sub.ID,
		Name:         sub.Name,
		Provider:     sub.Provider,
		Cost:         sub.Cost.String(),
		Currency:     string(sub.Currency),
		BillingCycle: string(sub.BillingCycle),
		ExpiryDate:   sub.ExpiryDate.Format("2006-01-02"),
		Status:       string(core.StatusOf(sub.ExpiryDate, now)),
		DaysLeft:     core.DaysLeft(sub.ExpiryDate, now),
		Notes:        sub.Notes,
	}
	if sub.CategoryID != uuid.Nil {
		resp.CategoryID = sub.CategoryID.String()
	}
	if !sub.StartDate.IsZero() {
		resp.StartDate = sub.StartDate.Format("2006-01-02")
	}
	return resp
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.storage.ListSubscriptions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}

	now := s.now()
	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionResponse(sub, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	sub, err := s.storage.GetSubscription(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to get subscription", "subscription_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get subscription")
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub, s.now()))
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := req.toSubscription()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	now := s.now()
	created, err := s.subscriptions.Create(r.Context(), sub, now)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create subscription", "name", sub.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create subscription")
		return
	}
	writeJSON(w, http.StatusCreated, toSubscriptionResponse(created, now))
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := req.toSubscription()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sub.ID = id

	now := s.now()
	updated, err := s.subscriptions.Update(r.Context(), sub, now)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update subscription", "subscription_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update subscription")
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(updated, now))
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	err = s.subscriptions.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete subscription", "subscription_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete subscription")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenewSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	now := s.now()
	renewed, err := s.subscriptions.Renew(r.Context(), id, now)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to renew subscription", "subscription_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to renew subscription")
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(renewed, now))
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyName,
		core.ErrNegativeCost,
		core.ErrInvalidCurrency,
		core.ErrInvalidCycle,
		core.ErrZeroExpiryDate,
		core.ErrInvalidRate,
		core.ErrInvalidReminder,
		core.ErrInvalidTime,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
