package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"gorm.io/gorm"
)

type NotificationRuleRepository struct {
	db *gorm.DB
}

func NewNotificationRuleRepository(db *gorm.DB) *NotificationRuleRepository {
	return &NotificationRuleRepository{db: db}
}

func (r *NotificationRuleRepository) Create(ctx context.Context, rule *domain.NotificationRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *NotificationRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationRule, error) {
	var rule domain.NotificationRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *NotificationRuleRepository) List(ctx context.Context, page, pageSize int) ([]domain.NotificationRule, int64, error) {
	var rules []domain.NotificationRule
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.NotificationRule{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&rules).Error

	return rules, total, err
}

// ListActive returns the rules the scheduler should evaluate.
func (r *NotificationRuleRepository) ListActive(ctx context.Context) ([]domain.NotificationRule, error) {
	var rules []domain.NotificationRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *NotificationRuleRepository) Update(ctx context.Context, rule *domain.NotificationRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *NotificationRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.NotificationRule{}, "id = ?", id).Error
}
