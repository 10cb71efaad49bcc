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

// NotificationRuleService manages the rule registry. The condition's type
// must name a known rule type; field, operator and value are stored
// verbatim as descriptive metadata.
type NotificationRuleService struct {
	ruleRepo *repository.NotificationRuleRepository
	logger   *zap.Logger
}

func NewNotificationRuleService(ruleRepo *repository.NotificationRuleRepository, logger *zap.Logger) *NotificationRuleService {
	return &NotificationRuleService{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

func (s *NotificationRuleService) Create(ctx context.Context, req *domain.CreateNotificationRuleRequest) (*domain.NotificationRuleDTO, error) {
	if !req.Condition.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, req.Condition.Type)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule := &domain.NotificationRule{
		Name:        req.Name,
		Description: req.Description,
		Condition:   req.Condition,
		IsActive:    isActive,
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create notification rule: %w", err)
	}

	dto := mapper.ToNotificationRuleDTO(rule)
	return &dto, nil
}

func (s *NotificationRuleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationRuleDTO, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification rule: %w", err)
	}

	dto := mapper.ToNotificationRuleDTO(rule)
	return &dto, nil
}

func (s *NotificationRuleService) List(ctx context.Context, page, pageSize int) ([]domain.NotificationRuleDTO, int64, error) {
	rules, total, err := s.ruleRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notification rules: %w", err)
	}

	dtos := make([]domain.NotificationRuleDTO, len(rules))
	for i := range rules {
		dtos[i] = mapper.ToNotificationRuleDTO(&rules[i])
	}
	return dtos, total, nil
}

func (s *NotificationRuleService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateNotificationRuleRequest) (*domain.NotificationRuleDTO, error) {
	if !req.Condition.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, req.Condition.Type)
	}

	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification rule: %w", err)
	}

	rule.Name = req.Name
	rule.Description = req.Description
	rule.Condition = req.Condition
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update notification rule: %w", err)
	}

	dto := mapper.ToNotificationRuleDTO(rule)
	return &dto, nil
}

func (s *NotificationRuleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ruleRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get notification rule: %w", err)
	}

	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete notification rule: %w", err)
	}
	return nil
}
