package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts an alert. The partial unique index on
// (entity_id, entity_type, type) WHERE is_read = false makes a duplicate
// unread alert a silent no-op rather than an error, so racing evaluation
// passes cannot double-insert.
func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(alert).Error
}

func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	var alert domain.Alert
	err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepository) List(ctx context.Context, page, pageSize int, alertType domain.AlertType) ([]domain.Alert, int64, error) {
	var alerts []domain.Alert
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Alert{})

	if alertType != "" {
		query = query.Where("type = ?", alertType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&alerts).Error

	return alerts, total, err
}

// ListUnread returns all unread alerts, newest first.
func (r *AlertRepository) ListUnread(ctx context.Context) ([]domain.Alert, error) {
	var alerts []domain.Alert
	err := r.db.WithContext(ctx).
		Where("is_read = ?", false).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

// HasUnread reports whether an unread alert already exists for the entity
// and alert type.
func (r *AlertRepository) HasUnread(ctx context.Context, entityID uuid.UUID, entityType string, alertType domain.AlertType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("entity_id = ? AND entity_type = ? AND type = ? AND is_read = ?",
			entityID, entityType, alertType, false).
		Count(&count).Error
	return count > 0, err
}

func (r *AlertRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error
}

func (r *AlertRepository) MarkAllAsRead(ctx context.Context) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error
}

func (r *AlertRepository) CountUnread(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("is_read = ?", false).
		Count(&count).Error
	return int(count), err
}
