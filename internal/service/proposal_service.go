package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/mapper"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProposalService struct {
	proposalRepo *repository.ProposalRepository
	clientRepo   *repository.ClientRepository
	logger       *zap.Logger
}

func NewProposalService(
	proposalRepo *repository.ProposalRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		clientRepo:   clientRepo,
		logger:       logger,
	}
}

func (s *ProposalService) Create(ctx context.Context, req *domain.CreateProposalRequest) (*domain.ProposalDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %s", ErrClientNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	status := req.Status
	if status == "" {
		status = domain.ProposalStatusDraft
	}

	proposal := &domain.Proposal{
		ClientID:   req.ClientID,
		Title:      req.Title,
		Value:      req.Value,
		Status:     status,
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	created, err := s.proposalRepo.GetByID(ctx, proposal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload proposal: %w", err)
	}

	dto := mapper.ToProposalDTO(created)
	return &dto, nil
}

func (s *ProposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

func (s *ProposalService) List(ctx context.Context, page, pageSize int, status domain.ProposalStatus, clientID uuid.UUID) ([]domain.ProposalDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid proposal status %q", ErrInvalidInput, status)
	}

	proposals, total, err := s.proposalRepo.List(ctx, page, pageSize, status, clientID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list proposals: %w", err)
	}

	dtos := make([]domain.ProposalDTO, len(proposals))
	for i := range proposals {
		dtos[i] = mapper.ToProposalDTO(&proposals[i])
	}
	return dtos, total, nil
}

func (s *ProposalService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProposalRequest) (*domain.ProposalDTO, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	proposal.Title = req.Title
	proposal.Value = req.Value
	if req.Status != "" {
		proposal.Status = req.Status
	}
	proposal.ValidUntil = req.ValidUntil
	proposal.Notes = req.Notes

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}

	dto := mapper.ToProposalDTO(proposal)
	return &dto, nil
}

func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.proposalRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get proposal: %w", err)
	}

	if err := s.proposalRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete proposal: %w", err)
	}
	return nil
}
