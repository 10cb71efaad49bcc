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

// SubscriptionHandler handles HTTP requests for subscriptions, their
// service checklists and their payments
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	paymentService      *service.PaymentService
	logger              *zap.Logger
}

func NewSubscriptionHandler(
	subscriptionService *service.SubscriptionService,
	paymentService *service.PaymentService,
	logger *zap.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
		logger:              logger,
	}
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.SubscriptionStatus(r.URL.Query().Get("status"))

	subs, total, err := h.subscriptionService.List(r.Context(), page, pageSize, status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to list subscriptions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list subscriptions")
		return
	}

	respondJSON(w, http.StatusOK, paginated(subs, total, page, pageSize))
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	sub, err := h.subscriptionService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusConflict, "Subscription references a deleted client")
			return
		}
		h.logger.Error("failed to get subscription", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get subscription")
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	sub, err := h.subscriptionService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusBadRequest, "Client not found")
			return
		}
		h.logger.Error("failed to create subscription", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create subscription")
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

// Update handles PATCH: only the fields present in the body change.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var req domain.UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	sub, err := h.subscriptionService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update subscription", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	if err := h.subscriptionService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		h.logger.Error("failed to delete subscription", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete subscription")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Service checklist

func (h *SubscriptionHandler) AddService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var req domain.CreateSubscriptionServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	svc, err := h.subscriptionService.AddService(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		h.logger.Error("failed to add subscription service", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to add subscription service")
		return
	}

	respondJSON(w, http.StatusCreated, svc)
}

func (h *SubscriptionHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var req domain.UpdateSubscriptionServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	svc, err := h.subscriptionService.UpdateService(r.Context(), id, serviceID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription service not found")
			return
		}
		h.logger.Error("failed to update subscription service", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update subscription service")
		return
	}

	respondJSON(w, http.StatusOK, svc)
}

func (h *SubscriptionHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "serviceId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	if err := h.subscriptionService.DeleteService(r.Context(), id, serviceID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription service not found")
			return
		}
		h.logger.Error("failed to delete subscription service", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete subscription service")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Payments

func (h *SubscriptionHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	payments, err := h.paymentService.ListBySubscription(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		h.logger.Error("failed to list payments", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	respondJSON(w, http.StatusOK, payments)
}

func (h *SubscriptionHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var req domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	payment, err := h.paymentService.Create(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		h.logger.Error("failed to create payment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	respondJSON(w, http.StatusCreated, payment)
}
