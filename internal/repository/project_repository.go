package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Costs").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, status domain.ProjectStatus, clientID uuid.UUID) ([]domain.Project, int64, error) {
	var projects []domain.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Project{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if clientID != uuid.Nil {
		query = query.Where("client_id = ?", clientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Preload("Costs").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&projects).Error

	return projects, total, err
}

// FindOverdue returns non-terminal projects whose due date has passed,
// with the client preloaded for alert messages.
func (r *ProjectRepository) FindOverdue(ctx context.Context, now time.Time) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("due_date IS NOT NULL AND due_date < ? AND status NOT IN ?",
			now, []domain.ProjectStatus{domain.ProjectStatusCompleted, domain.ProjectStatusCancelled}).
		Order("due_date ASC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.ProjectCost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", "project", id).Delete(&domain.Alert{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, "id = ?", id).Error
	})
}

func (r *ProjectRepository) CountActive(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("status NOT IN ?", []domain.ProjectStatus{domain.ProjectStatusCompleted, domain.ProjectStatusCancelled}).
		Count(&count).Error
	return int(count), err
}

func (r *ProjectRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("due_date IS NOT NULL AND due_date < ? AND status NOT IN ?",
			now, []domain.ProjectStatus{domain.ProjectStatusCompleted, domain.ProjectStatusCancelled}).
		Count(&count).Error
	return int(count), err
}
