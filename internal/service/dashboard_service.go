package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"go.uber.org/zap"
)

type DashboardService struct {
	clientRepo   *repository.ClientRepository
	projectRepo  *repository.ProjectRepository
	subRepo      *repository.SubscriptionRepository
	alertRepo    *repository.AlertRepository
	proposalRepo *repository.ProposalRepository
	logger       *zap.Logger
}

func NewDashboardService(
	clientRepo *repository.ClientRepository,
	projectRepo *repository.ProjectRepository,
	subRepo *repository.SubscriptionRepository,
	alertRepo *repository.AlertRepository,
	proposalRepo *repository.ProposalRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		clientRepo:   clientRepo,
		projectRepo:  projectRepo,
		subRepo:      subRepo,
		alertRepo:    alertRepo,
		proposalRepo: proposalRepo,
		logger:       logger,
	}
}

// GetMetrics assembles the headline dashboard numbers. MRR is the sum of
// active subscription amounts, computed live like every other derived value.
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	mrr, err := s.subRepo.SumActiveAmounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute MRR: %w", err)
	}

	activeClients, err := s.clientRepo.CountByStatus(ctx, domain.ClientStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active clients: %w", err)
	}

	prospectClients, err := s.clientRepo.CountByStatus(ctx, domain.ClientStatusProspect)
	if err != nil {
		return nil, fmt.Errorf("failed to count prospect clients: %w", err)
	}

	activeProjects, err := s.projectRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active projects: %w", err)
	}

	overdueProjects, err := s.projectRepo.CountOverdue(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue projects: %w", err)
	}

	activeSubs, err := s.subRepo.CountByStatus(ctx, domain.SubscriptionStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	unreadAlerts, err := s.alertRepo.CountUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread alerts: %w", err)
	}

	openProposals, err := s.proposalRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open proposals: %w", err)
	}

	return &domain.DashboardMetrics{
		MRR:                 mrr,
		ActiveClients:       activeClients,
		ProspectClients:     prospectClients,
		ActiveProjects:      activeProjects,
		OverdueProjects:     overdueProjects,
		ActiveSubscriptions: activeSubs,
		UnreadAlerts:        unreadAlerts,
		OpenProposals:       openProposals,
	}, nil
}
