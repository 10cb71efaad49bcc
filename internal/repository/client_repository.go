package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) List(ctx context.Context, page, pageSize int, status domain.ClientStatus, search string) ([]domain.Client, int64, error) {
	var clients []domain.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Client{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR company_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&clients).Error

	return clients, total, err
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// DeleteCascade removes the client and everything hanging off it inside one
// transaction: payments, subscription services, subscriptions, project
// costs, projects, proposals, and alerts referencing the deleted entities.
func (r *ClientRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subIDs := tx.Model(&domain.Subscription{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("subscription_id IN (?)", subIDs).Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		subIDs = tx.Model(&domain.Subscription{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("subscription_id IN (?)", subIDs).Delete(&domain.SubscriptionService{}).Error; err != nil {
			return err
		}

		projIDs := tx.Model(&domain.Project{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("project_id IN (?)", projIDs).Delete(&domain.ProjectCost{}).Error; err != nil {
			return err
		}

		projIDs = tx.Model(&domain.Project{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("entity_type = ? AND entity_id IN (?)", "project", projIDs).Delete(&domain.Alert{}).Error; err != nil {
			return err
		}
		subIDs = tx.Model(&domain.Subscription{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("entity_type = ? AND entity_id IN (?)", "subscription", subIDs).Delete(&domain.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", "client", id).Delete(&domain.Alert{}).Error; err != nil {
			return err
		}

		if err := tx.Where("client_id = ?", id).Delete(&domain.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&domain.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&domain.Proposal{}).Error; err != nil {
			return err
		}

		return tx.Delete(&domain.Client{}, "id = ?", id).Error
	})
}

func (r *ClientRepository) CountByStatus(ctx context.Context, status domain.ClientStatus) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("status = ?", status).
		Count(&count).Error
	return int(count), err
}
