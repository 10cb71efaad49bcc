package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory sqlite database and migrates the
// full schema. Each call gets its own database, so tests can run in parallel.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&domain.Client{},
		&domain.Project{},
		&domain.ProjectCost{},
		&domain.Subscription{},
		&domain.SubscriptionService{},
		&domain.Payment{},
		&domain.Proposal{},
		&domain.Alert{},
		&domain.NotificationRule{},
	)
	require.NoError(t, err, "failed to migrate test database")

	// AutoMigrate cannot express the partial unique index the production
	// migrations create on alerts, so add it by hand. The dedup behavior
	// under concurrent scans depends on it.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_unread_dedup
		ON alerts (entity_id, entity_type, type) WHERE is_read = FALSE`).Error
	require.NoError(t, err, "failed to create alert dedup index")

	return db
}

// CreateTestClient inserts a client with sensible defaults.
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()

	client := &domain.Client{
		Name:            name,
		CompanyName:     name + " Ltd",
		Email:           "contact@example.com",
		Status:          domain.ClientStatusActive,
		UpsellPotential: domain.UpsellPotentialLow,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestProject inserts a project for the given client.
func CreateTestProject(t *testing.T, db *gorm.DB, clientID uuid.UUID, name string, status domain.ProjectStatus, dueDate *time.Time) *domain.Project {
	t.Helper()

	project := &domain.Project{
		ClientID: clientID,
		Name:     name,
		Status:   status,
		Value:    10000,
		DueDate:  dueDate,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestSubscription inserts a subscription for the given client.
func CreateTestSubscription(t *testing.T, db *gorm.DB, clientID uuid.UUID, billingDay int, amount float64) *domain.Subscription {
	t.Helper()

	sub := &domain.Subscription{
		ClientID:   clientID,
		BillingDay: billingDay,
		Amount:     amount,
		Status:     domain.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

// CreateTestRule inserts an active notification rule with the given type.
func CreateTestRule(t *testing.T, db *gorm.DB, name string, ruleType domain.RuleType) *domain.NotificationRule {
	t.Helper()

	rule := &domain.NotificationRule{
		Name:      name,
		Condition: domain.RuleCondition{Type: ruleType},
		IsActive:  true,
	}
	require.NoError(t, db.Create(rule).Error)
	return rule
}

// DaysAgo returns a pointer to a date the given number of days in the past.
func DaysAgo(days int) *time.Time {
	d := time.Now().UTC().AddDate(0, 0, -days)
	return &d
}

// DaysFromNow returns a pointer to a date the given number of days ahead.
func DaysFromNow(days int) *time.Time {
	d := time.Now().UTC().AddDate(0, 0, days)
	return &d
}
