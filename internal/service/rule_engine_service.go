package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"go.uber.org/zap"
)

// ruleChecker evaluates one rule type across the data set and returns how
// many alerts it created.
type ruleChecker func(ctx context.Context, rule *domain.NotificationRule, now time.Time) (int, error)

// RuleEngineService runs the active notification rules and raises
// deduplicated alerts. Checkers are registered in a dispatch table at
// construction, so adding a rule type is a map entry rather than a
// conditional chain.
type RuleEngineService struct {
	ruleRepo    *repository.NotificationRuleRepository
	projectRepo *repository.ProjectRepository
	alerts      *AlertService
	logger      *zap.Logger

	checkers map[domain.RuleType]ruleChecker

	// mu makes concurrent evaluation passes no-ops instead of queueing:
	// a manual trigger overlapping the cron pass should not double-scan.
	mu sync.Mutex
}

func NewRuleEngineService(
	ruleRepo *repository.NotificationRuleRepository,
	projectRepo *repository.ProjectRepository,
	alerts *AlertService,
	logger *zap.Logger,
) *RuleEngineService {
	s := &RuleEngineService{
		ruleRepo:    ruleRepo,
		projectRepo: projectRepo,
		alerts:      alerts,
		logger:      logger,
	}

	s.checkers = map[domain.RuleType]ruleChecker{
		domain.RuleTypeProjectDelayed:    s.checkProjectDelayed,
		domain.RuleTypePaymentPending:    s.notImplemented(domain.RuleTypePaymentPending),
		domain.RuleTypeUpsellOpportunity: s.notImplemented(domain.RuleTypeUpsellOpportunity),
	}

	return s
}

// EvaluateActiveRules runs every active rule once. It returns how many
// alerts were created and how many rules were skipped (unknown type or
// checker failure). A failing rule never aborts the pass. When another
// pass is already running the call returns immediately with zero counts.
func (s *RuleEngineService) EvaluateActiveRules(ctx context.Context) (created, skipped int, err error) {
	if !s.mu.TryLock() {
		s.logger.Debug("rule evaluation already in progress, skipping pass")
		return 0, 0, nil
	}
	defer s.mu.Unlock()

	rules, err := s.ruleRepo.ListActive(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list active rules: %w", err)
	}

	now := time.Now()
	for i := range rules {
		rule := &rules[i]

		checker, ok := s.checkers[rule.Condition.Type]
		if !ok {
			s.logger.Warn("skipping rule with unknown type",
				zap.String("rule_id", rule.ID.String()),
				zap.String("rule_name", rule.Name),
				zap.String("type", string(rule.Condition.Type)),
			)
			skipped++
			continue
		}

		n, err := checker(ctx, rule, now)
		if err != nil {
			s.logger.Error("rule evaluation failed",
				zap.String("rule_id", rule.ID.String()),
				zap.String("rule_name", rule.Name),
				zap.Error(err),
			)
			skipped++
			continue
		}
		created += n
	}

	s.logger.Info("rule evaluation pass finished",
		zap.Int("rules", len(rules)),
		zap.Int("alerts_created", created),
		zap.Int("rules_skipped", skipped),
	)
	return created, skipped, nil
}

// checkProjectDelayed raises one unread alert per overdue project.
// Priority scales with how late the project is: more than 7 days high,
// more than 3 days medium, otherwise low.
func (s *RuleEngineService) checkProjectDelayed(ctx context.Context, rule *domain.NotificationRule, now time.Time) (int, error) {
	projects, err := s.projectRepo.FindOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find overdue projects: %w", err)
	}

	created := 0
	for i := range projects {
		project := &projects[i]
		daysLate := int(now.Sub(*project.DueDate).Hours() / 24)

		priority := domain.AlertPriorityLow
		switch {
		case daysLate > 7:
			priority = domain.AlertPriorityHigh
		case daysLate > 3:
			priority = domain.AlertPriorityMedium
		}

		clientName := ""
		if project.Client != nil {
			clientName = project.Client.Name
		}

		alert := &domain.Alert{
			Type:       domain.AlertTypeProjectDelayed,
			Title:      fmt.Sprintf("Project delayed: %s", project.Name),
			Message:    buildDelayedMessage(project.Name, clientName, daysLate, *project.DueDate),
			EntityID:   project.ID,
			EntityType: "project",
			Priority:   priority,
		}

		ok, err := s.alerts.CreateIfAbsent(ctx, alert)
		if err != nil {
			return created, fmt.Errorf("failed to create alert for project %s: %w", project.ID, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// notImplemented returns a checker stub for rule types whose data source
// is not wired up yet. It logs once per pass and creates nothing.
func (s *RuleEngineService) notImplemented(rt domain.RuleType) ruleChecker {
	return func(ctx context.Context, rule *domain.NotificationRule, now time.Time) (int, error) {
		s.logger.Info("rule checker not implemented",
			zap.String("type", string(rt)),
			zap.String("rule_id", rule.ID.String()),
		)
		return 0, nil
	}
}

func buildDelayedMessage(projectName, clientName string, daysLate int, due time.Time) string {
	msg := fmt.Sprintf("Project %q is %d day(s) past its due date (%s)", projectName, daysLate, due.Format("2006-01-02"))
	if clientName != "" {
		msg += fmt.Sprintf(" for client %s", clientName)
	}
	return msg
}
