package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/service"
	"go.uber.org/zap"
)

// NotificationRuleHandler handles HTTP requests for notification rules
type NotificationRuleHandler struct {
	ruleService *service.NotificationRuleService
	logger      *zap.Logger
}

func NewNotificationRuleHandler(ruleService *service.NotificationRuleService, logger *zap.Logger) *NotificationRuleHandler {
	return &NotificationRuleHandler{
		ruleService: ruleService,
		logger:      logger,
	}
}

func (h *NotificationRuleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	rules, total, err := h.ruleService.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list notification rules", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list notification rules")
		return
	}

	respondJSON(w, http.StatusOK, paginated(rules, total, page, pageSize))
}

func (h *NotificationRuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rule ID")
		return
	}

	rule, err := h.ruleService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Notification rule not found")
			return
		}
		h.logger.Error("failed to get notification rule", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get notification rule")
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

func (h *NotificationRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	rule, err := h.ruleService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create notification rule", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create notification rule")
		return
	}

	respondJSON(w, http.StatusCreated, rule)
}

func (h *NotificationRuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rule ID")
		return
	}

	var req domain.UpdateNotificationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	rule, err := h.ruleService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Notification rule not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update notification rule", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update notification rule")
		return
	}

	respondJSON(w, http.StatusOK, rule)
}

func (h *NotificationRuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid rule ID")
		return
	}

	if err := h.ruleService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Notification rule not found")
			return
		}
		h.logger.Error("failed to delete notification rule", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete notification rule")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
