package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/handler/dto"
	"github.com/genstudio/genstudio/internal/model"
)

// ActivityService lists and deletes generation history.
type ActivityService interface {
	List(ctx context.Context, accountID string) ([]*model.ActivityRecord, error)
	Delete(ctx context.Context, accountID, activityID string) error
}

// ActivityHandler serves the caller's activity history.
type ActivityHandler struct {
	svc    ActivityService
	logger *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(svc ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, logger: logger}
}

// List handles GET /api/activity.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context(), auth.AccountIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActivityListResponse(records))
}

// Delete handles DELETE /api/activity/{id}.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Activity ID is required", "")
		return
	}

	if err := h.svc.Delete(r.Context(), auth.AccountIDFromContext(r.Context()), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Activity deleted"})
}
