package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// GetByID loads a subscription with its client and its service checklist
// ordered by display order.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) List(ctx context.Context, page, pageSize int, status domain.SubscriptionStatus) ([]domain.Subscription, int64, error) {
	var subs []domain.Subscription
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Subscription{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&subs).Error

	return subs, total, err
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subscription_id = ?", id).Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subscription_id = ?", id).Delete(&domain.SubscriptionService{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", "subscription", id).Delete(&domain.Alert{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Subscription{}, "id = ?", id).Error
	})
}

// SumActiveAmounts returns the monthly recurring revenue across active
// subscriptions.
func (r *SubscriptionRepository) SumActiveAmounts(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("status = ?", domain.SubscriptionStatusActive).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *SubscriptionRepository) CountByStatus(ctx context.Context, status domain.SubscriptionStatus) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("status = ?", status).
		Count(&count).Error
	return int(count), err
}

// Service checklist operations

func (r *SubscriptionRepository) CreateService(ctx context.Context, svc *domain.SubscriptionService) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *SubscriptionRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*domain.SubscriptionService, error) {
	var svc domain.SubscriptionService
	err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *SubscriptionRepository) UpdateService(ctx context.Context, svc *domain.SubscriptionService) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

func (r *SubscriptionRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.SubscriptionService{}, "id = ?", id).Error
}
