package http

import (
	"log/slog"
	"net/http"

	"subtracker/internal/core"
)

type settingsPayload struct {
	ReminderDays     []int  `json:"reminder_days"`
	NotifyTime       string `json:"notify_time"`
	DefaultCurrency  string `json:"default_currency"`
	ExchangeRate     string `json:"exchange_rate"`
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramChatID   string `json:"telegram_chat_id"`
}

func toSettingsPayload(s core.Settings) settingsPayload {
	return settingsPayload{
		ReminderDays:     s.ReminderDays,
		NotifyTime:       s.NotifyTime,
		DefaultCurrency:  string(s.DefaultCurrency),
		ExchangeRate:     s.ExchangeRate.String(),
		TelegramBotToken: s.TelegramBotToken,
		TelegramChatID:   s.TelegramChatID,
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.storage.GetSettings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings := core.Settings{
		ReminderDays:     req.ReminderDays,
		NotifyTime:       req.NotifyTime,
		TelegramBotToken: req.TelegramBotToken,
		TelegramChatID:   req.TelegramChatID,
	}
	var err error
	if settings.DefaultCurrency, err = core.ParseCurrency(req.DefaultCurrency); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if settings.ExchangeRate, err = core.ParseRate(req.ExchangeRate); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.storage.UpdateSettings(r.Context(), settings); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}
