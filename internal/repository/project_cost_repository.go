package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"gorm.io/gorm"
)

type ProjectCostRepository struct {
	db *gorm.DB
}

func NewProjectCostRepository(db *gorm.DB) *ProjectCostRepository {
	return &ProjectCostRepository{db: db}
}

func (r *ProjectCostRepository) Create(ctx context.Context, cost *domain.ProjectCost) error {
	return r.db.WithContext(ctx).Create(cost).Error
}

func (r *ProjectCostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectCost, error) {
	var cost domain.ProjectCost
	err := r.db.WithContext(ctx).First(&cost, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cost, nil
}

func (r *ProjectCostRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectCost, error) {
	var costs []domain.ProjectCost
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("cost_date DESC").
		Find(&costs).Error
	return costs, err
}

func (r *ProjectCostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProjectCost{}, "id = ?", id).Error
}
