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

type ClientService struct {
	clientRepo *repository.ClientRepository
	logger     *zap.Logger
}

func NewClientService(clientRepo *repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.ClientStatusProspect
	}
	upsell := req.UpsellPotential
	if upsell == "" {
		upsell = domain.UpsellPotentialLow
	}

	client := &domain.Client{
		Name:              req.Name,
		CompanyName:       req.CompanyName,
		Email:             req.Email,
		Phone:             req.Phone,
		Sector:            req.Sector,
		AcquisitionSource: req.AcquisitionSource,
		Status:            status,
		NPSScore:          req.NPSScore,
		LifetimeValue:     req.LifetimeValue,
		UpsellPotential:   upsell,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) List(ctx context.Context, page, pageSize int, status domain.ClientStatus, search string) ([]domain.ClientDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid client status %q", ErrInvalidInput, status)
	}

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, status, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
	}
	return dtos, total, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	client.Name = req.Name
	client.CompanyName = req.CompanyName
	client.Email = req.Email
	client.Phone = req.Phone
	client.Sector = req.Sector
	client.AcquisitionSource = req.AcquisitionSource
	if req.Status != "" {
		client.Status = req.Status
	}
	client.NPSScore = req.NPSScore
	client.LifetimeValue = req.LifetimeValue
	if req.UpsellPotential != "" {
		client.UpsellPotential = req.UpsellPotential
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// Delete removes the client and everything that references it. The cascade
// runs in a single transaction so a partial failure leaves nothing orphaned.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get client: %w", err)
	}

	if err := s.clientRepo.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info("client deleted with cascade", zap.String("client_id", id.String()))
	return nil
}
