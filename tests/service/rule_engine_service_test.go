package service_test

import (
	"context"
	"testing"

	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"github.com/opsboard-hq/opsboard-api/internal/service"
	"github.com/opsboard-hq/opsboard-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRuleEngine(db *gorm.DB) *service.RuleEngineService {
	logger := zap.NewNop()
	alertService := service.NewAlertService(repository.NewAlertRepository(db), logger)
	return service.NewRuleEngineService(
		repository.NewNotificationRuleRepository(db),
		repository.NewProjectRepository(db),
		alertService,
		logger,
	)
}

func countAlerts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.Alert{}).Count(&count).Error)
	return count
}

func TestRuleEngine_OverdueProjectCreatesAlert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	project := testutil.CreateTestProject(t, db, client.ID, "Website", domain.ProjectStatusDevelopment, testutil.DaysAgo(5))
	testutil.CreateTestRule(t, db, "Delayed projects", domain.RuleTypeProjectDelayed)

	created, skipped, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, skipped)

	var alert domain.Alert
	require.NoError(t, db.First(&alert).Error)
	assert.Equal(t, domain.AlertTypeProjectDelayed, alert.Type)
	assert.Equal(t, project.ID, alert.EntityID)
	assert.Equal(t, "project", alert.EntityType)
	assert.False(t, alert.IsRead)
	assert.Contains(t, alert.Message, "Website")
	assert.Contains(t, alert.Message, "Acme")
}

func TestRuleEngine_RepeatedPassesCreateNoDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	testutil.CreateTestProject(t, db, client.ID, "Website", domain.ProjectStatusDevelopment, testutil.DaysAgo(5))
	testutil.CreateTestRule(t, db, "Delayed projects", domain.RuleTypeProjectDelayed)

	created, _, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// However many times the scheduler fires, the unread alert stays unique.
	for i := 0; i < 4; i++ {
		created, _, err = engine.EvaluateActiveRules(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, created)
	}

	assert.EqualValues(t, 1, countAlerts(t, db))
}

func TestRuleEngine_NewAlertAfterPreviousRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	testutil.CreateTestProject(t, db, client.ID, "Website", domain.ProjectStatusDevelopment, testutil.DaysAgo(5))
	testutil.CreateTestRule(t, db, "Delayed projects", domain.RuleTypeProjectDelayed)

	_, _, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)

	// Once the alert is read, the project being still overdue warrants a
	// fresh one on the next pass.
	require.NoError(t, db.Model(&domain.Alert{}).Where("1 = 1").Update("is_read", true).Error)

	created, _, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.EqualValues(t, 2, countAlerts(t, db))
}

func TestRuleEngine_PriorityScalesWithDelay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	high := testutil.CreateTestProject(t, db, client.ID, "Very late", domain.ProjectStatusDevelopment, testutil.DaysAgo(8))
	medium := testutil.CreateTestProject(t, db, client.ID, "Late", domain.ProjectStatusDevelopment, testutil.DaysAgo(4))
	low := testutil.CreateTestProject(t, db, client.ID, "Slightly late", domain.ProjectStatusDevelopment, testutil.DaysAgo(1))
	testutil.CreateTestRule(t, db, "Delayed projects", domain.RuleTypeProjectDelayed)

	created, _, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	priorities := map[string]domain.AlertPriority{}
	var alerts []domain.Alert
	require.NoError(t, db.Find(&alerts).Error)
	for _, a := range alerts {
		priorities[a.EntityID.String()] = a.Priority
	}

	assert.Equal(t, domain.AlertPriorityHigh, priorities[high.ID.String()])
	assert.Equal(t, domain.AlertPriorityMedium, priorities[medium.ID.String()])
	assert.Equal(t, domain.AlertPriorityLow, priorities[low.ID.String()])
}

func TestRuleEngine_TerminalProjectsIgnored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	testutil.CreateTestProject(t, db, client.ID, "Done", domain.ProjectStatusCompleted, testutil.DaysAgo(10))
	testutil.CreateTestProject(t, db, client.ID, "Dropped", domain.ProjectStatusCancelled, testutil.DaysAgo(10))
	testutil.CreateTestProject(t, db, client.ID, "Future", domain.ProjectStatusDevelopment, testutil.DaysFromNow(10))
	testutil.CreateTestProject(t, db, client.ID, "No due date", domain.ProjectStatusDevelopment, nil)
	testutil.CreateTestRule(t, db, "Delayed projects", domain.RuleTypeProjectDelayed)

	created, skipped, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 0, skipped)
	assert.EqualValues(t, 0, countAlerts(t, db))
}

func TestRuleEngine_InactiveRuleNotEvaluated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	testutil.CreateTestProject(t, db, client.ID, "Website", domain.ProjectStatusDevelopment, testutil.DaysAgo(5))

	rule := testutil.CreateTestRule(t, db, "Delayed projects", domain.RuleTypeProjectDelayed)
	require.NoError(t, db.Model(rule).Update("is_active", false).Error)

	created, skipped, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 0, skipped)
}

func TestRuleEngine_UnknownRuleTypeSkipped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	rule := &domain.NotificationRule{
		Name:      "Mystery rule",
		Condition: domain.RuleCondition{Type: "does_not_exist"},
		IsActive:  true,
	}
	require.NoError(t, db.Create(rule).Error)

	created, skipped, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, skipped)
}

func TestRuleEngine_StubCheckersCreateNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	testutil.CreateTestRule(t, db, "Pending payments", domain.RuleTypePaymentPending)
	testutil.CreateTestRule(t, db, "Upsell candidates", domain.RuleTypeUpsellOpportunity)

	created, skipped, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 0, skipped)
	assert.EqualValues(t, 0, countAlerts(t, db))
}

func TestRuleEngine_MultipleRulesOnePass(t *testing.T) {
	db := testutil.SetupTestDB(t)
	engine := newRuleEngine(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	testutil.CreateTestProject(t, db, client.ID, "Website", domain.ProjectStatusDevelopment, testutil.DaysAgo(5))
	testutil.CreateTestRule(t, db, "Delayed projects", domain.RuleTypeProjectDelayed)
	testutil.CreateTestRule(t, db, "Pending payments", domain.RuleTypePaymentPending)

	created, skipped, err := engine.EvaluateActiveRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, skipped)
}
