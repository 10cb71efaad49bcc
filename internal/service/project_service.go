package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/mapper"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	costRepo    *repository.ProjectCostRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	costRepo *repository.ProjectCostRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		costRepo:    costRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %s", ErrClientNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	status := req.Status
	if status == "" {
		status = domain.ProjectStatusDiscovery
	}

	project := &domain.Project{
		ClientID:        req.ClientID,
		Name:            req.Name,
		Description:     req.Description,
		Status:          status,
		Value:           req.Value,
		EstimatedHours:  req.EstimatedHours,
		WorkedHours:     req.WorkedHours,
		ProgressPercent: req.ProgressPercent,
		StartDate:       req.StartDate,
		DueDate:         req.DueDate,
		IsRecurring:     req.IsRecurring,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	created, err := s.projectRepo.GetByID(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	dto := mapper.ToProjectDTO(created, time.Now())
	return &dto, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	dto := mapper.ToProjectDTO(project, time.Now())
	return &dto, nil
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int, status domain.ProjectStatus, clientID uuid.UUID) ([]domain.ProjectDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid project status %q", ErrInvalidInput, status)
	}

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, status, clientID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	now := time.Now()
	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectDTO(&projects[i], now)
	}
	return dtos, total, nil
}

// Update applies a partial update; nil request fields leave the stored
// value untouched.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid project status %q", ErrInvalidInput, *req.Status)
		}
		project.Status = *req.Status
	}
	if req.Value != nil {
		project.Value = *req.Value
	}
	if req.EstimatedHours != nil {
		project.EstimatedHours = *req.EstimatedHours
	}
	if req.WorkedHours != nil {
		project.WorkedHours = *req.WorkedHours
	}
	if req.ProgressPercent != nil {
		project.ProgressPercent = *req.ProgressPercent
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}
	if req.IsRecurring != nil {
		project.IsRecurring = *req.IsRecurring
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	dto := mapper.ToProjectDTO(project, time.Now())
	return &dto, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) AddCost(ctx context.Context, projectID uuid.UUID, req *domain.CreateProjectCostRequest) (*domain.ProjectCostDTO, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	cost := &domain.ProjectCost{
		ProjectID: projectID,
		Amount:    req.Amount,
		Category:  req.Category,
		CostDate:  req.CostDate,
		Notes:     req.Notes,
	}

	if err := s.costRepo.Create(ctx, cost); err != nil {
		return nil, fmt.Errorf("failed to create project cost: %w", err)
	}

	dto := mapper.ToProjectCostDTO(cost)
	return &dto, nil
}

func (s *ProjectService) ListCosts(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectCostDTO, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	costs, err := s.costRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project costs: %w", err)
	}

	dtos := make([]domain.ProjectCostDTO, len(costs))
	for i := range costs {
		dtos[i] = mapper.ToProjectCostDTO(&costs[i])
	}
	return dtos, nil
}

func (s *ProjectService) DeleteCost(ctx context.Context, projectID, costID uuid.UUID) error {
	cost, err := s.costRepo.GetByID(ctx, costID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get project cost: %w", err)
	}
	if cost.ProjectID != projectID {
		return ErrNotFound
	}

	if err := s.costRepo.Delete(ctx, costID); err != nil {
		return fmt.Errorf("failed to delete project cost: %w", err)
	}
	return nil
}
