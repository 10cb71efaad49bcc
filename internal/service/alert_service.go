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

type AlertService struct {
	alertRepo *repository.AlertRepository
	logger    *zap.Logger
}

func NewAlertService(alertRepo *repository.AlertRepository, logger *zap.Logger) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		logger:    logger,
	}
}

func (s *AlertService) List(ctx context.Context, page, pageSize int, alertType domain.AlertType) ([]domain.AlertDTO, int64, error) {
	if alertType != "" && !alertType.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid alert type %q", ErrInvalidInput, alertType)
	}

	alerts, total, err := s.alertRepo.List(ctx, page, pageSize, alertType)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	dtos := make([]domain.AlertDTO, len(alerts))
	for i := range alerts {
		dtos[i] = mapper.ToAlertDTO(&alerts[i])
	}
	return dtos, total, nil
}

func (s *AlertService) ListUnread(ctx context.Context) ([]domain.AlertDTO, error) {
	alerts, err := s.alertRepo.ListUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread alerts: %w", err)
	}

	dtos := make([]domain.AlertDTO, len(alerts))
	for i := range alerts {
		dtos[i] = mapper.ToAlertDTO(&alerts[i])
	}
	return dtos, nil
}

// MarkAsRead marks one alert read. Marking an already-read alert is a
// no-op, not an error.
func (s *AlertService) MarkAsRead(ctx context.Context, id uuid.UUID) (*domain.AlertDTO, error) {
	if _, err := s.alertRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	if err := s.alertRepo.MarkAsRead(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to mark alert as read: %w", err)
	}

	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload alert: %w", err)
	}

	dto := mapper.ToAlertDTO(alert)
	return &dto, nil
}

func (s *AlertService) MarkAllAsRead(ctx context.Context) error {
	if err := s.alertRepo.MarkAllAsRead(ctx); err != nil {
		return fmt.Errorf("failed to mark all alerts as read: %w", err)
	}
	return nil
}

// CreateIfAbsent creates an alert unless an unread one already exists for
// the same entity and type. Returns true when a new alert was created.
// The unread check plus the insert's on-conflict-do-nothing clause keep
// the invariant intact even when two evaluation passes race.
func (s *AlertService) CreateIfAbsent(ctx context.Context, alert *domain.Alert) (bool, error) {
	exists, err := s.alertRepo.HasUnread(ctx, alert.EntityID, alert.EntityType, alert.Type)
	if err != nil {
		return false, fmt.Errorf("failed to check for unread alert: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return false, fmt.Errorf("failed to create alert: %w", err)
	}

	s.logger.Debug("alert created",
		zap.String("type", string(alert.Type)),
		zap.String("entity_id", alert.EntityID.String()),
		zap.String("entity_type", alert.EntityType),
		zap.String("priority", string(alert.Priority)),
	)
	return true, nil
}

func (s *AlertService) CountUnread(ctx context.Context) (int, error) {
	return s.alertRepo.CountUnread(ctx)
}
