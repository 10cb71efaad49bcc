package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/service"
	"go.uber.org/zap"
)

// AlertHandler handles HTTP requests for alerts
type AlertHandler struct {
	alertService *service.AlertService
	logger       *zap.Logger
}

func NewAlertHandler(alertService *service.AlertService, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
		logger:       logger,
	}
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	alertType := domain.AlertType(r.URL.Query().Get("type"))

	alerts, total, err := h.alertService.List(r.Context(), page, pageSize, alertType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to list alerts", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	respondJSON(w, http.StatusOK, paginated(alerts, total, page, pageSize))
}

func (h *AlertHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.ListUnread(r.Context())
	if err != nil {
		h.logger.Error("failed to list unread alerts", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list unread alerts")
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

// MarkAsRead serves both POST and PATCH on /alerts/{id}/read with identical
// semantics; marking a read alert again succeeds without changes.
func (h *AlertHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid alert ID")
		return
	}

	alert, err := h.alertService.MarkAsRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Alert not found")
			return
		}
		h.logger.Error("failed to mark alert as read", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to mark alert as read")
		return
	}

	respondJSON(w, http.StatusOK, alert)
}

func (h *AlertHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.alertService.MarkAllAsRead(r.Context()); err != nil {
		h.logger.Error("failed to mark all alerts as read", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to mark all alerts as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
