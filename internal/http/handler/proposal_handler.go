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

// ProposalHandler handles HTTP requests for proposals
type ProposalHandler struct {
	proposalService *service.ProposalService
	logger          *zap.Logger
}

func NewProposalHandler(proposalService *service.ProposalService, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		logger:          logger,
	}
}

func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.ProposalStatus(r.URL.Query().Get("status"))

	clientID := uuid.Nil
	if c := r.URL.Query().Get("clientId"); c != "" {
		parsed, err := uuid.Parse(c)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid client ID")
			return
		}
		clientID = parsed
	}

	proposals, total, err := h.proposalService.List(r.Context(), page, pageSize, status, clientID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to list proposals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list proposals")
		return
	}

	respondJSON(w, http.StatusOK, paginated(proposals, total, page, pageSize))
}

func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID")
		return
	}

	proposal, err := h.proposalService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Proposal not found")
			return
		}
		h.logger.Error("failed to get proposal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get proposal")
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondWithError(w, http.StatusBadRequest, "Client not found")
			return
		}
		h.logger.Error("failed to create proposal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create proposal")
		return
	}

	respondJSON(w, http.StatusCreated, proposal)
}

func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID")
		return
	}

	var req domain.UpdateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Proposal not found")
			return
		}
		h.logger.Error("failed to update proposal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update proposal")
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID")
		return
	}

	if err := h.proposalService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Proposal not found")
			return
		}
		h.logger.Error("failed to delete proposal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete proposal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
