package http

import (
	"errors"
	"log/slog"
	"net/http"

	"subtracker/internal/core"
	"subtracker/internal/storage"

	"github.com/google/uuid"
)

const defaultCategoryColor = "#4382FF"

type categoryRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

type categoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon,omitempty"`
	SortOrder    int       `json:"sort_order"`
	ServiceCount int       `json:"service_count"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Color: c.Color, Icon: c.Icon, SortOrder: c.SortOrder}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.storage.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	subs, err := s.storage.ListSubscriptions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	counts := map[uuid.UUID]int{}
	for _, sub := range subs {
		counts[sub.CategoryID]++
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		resp := toCategoryResponse(c)
		resp.ServiceCount = counts[c.ID]
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat := core.Category{
		ID:        uuid.New(),
		Name:      sanitizeInput(req.Name),
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if cat.Color == "" {
		cat.Color = defaultCategoryColor
	}
	if err := cat.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.storage.CreateCategory(r.Context(), cat); err != nil {
		slog.ErrorContext(r.Context(), "Failed to create category", "name", cat.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(cat))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat := core.Category{
		ID:        id,
		Name:      sanitizeInput(req.Name),
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if cat.Color == "" {
		cat.Color = defaultCategoryColor
	}
	if err := cat.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err = s.storage.UpdateCategory(r.Context(), cat)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to update category", "category_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update category")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	err = s.storage.DeleteCategory(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete category", "category_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "ids must not be empty")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid category id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	if err := s.storage.ReorderCategories(r.Context(), ids); err != nil {
		slog.ErrorContext(r.Context(), "Failed to reorder categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reorder categories")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
