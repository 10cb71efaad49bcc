package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"github.com/opsboard-hq/opsboard-api/internal/service"
	"github.com/opsboard-hq/opsboard-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newClientService(db *gorm.DB) *service.ClientService {
	return service.NewClientService(repository.NewClientRepository(db), zap.NewNop())
}

func TestClientService_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)

	dto, err := svc.Create(context.Background(), &domain.CreateClientRequest{
		Name:  "Acme",
		Email: "hello@acme.test",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ClientStatusProspect, dto.Status)
	assert.Equal(t, domain.UpsellPotentialLow, dto.UpsellPotential)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestClientService_Create_ExplicitStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)

	dto, err := svc.Create(context.Background(), &domain.CreateClientRequest{
		Name:   "Acme",
		Email:  "hello@acme.test",
		Status: domain.ClientStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusActive, dto.Status)
}

func TestClientService_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestClientService_Update_FullReplace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)
	client := testutil.CreateTestClient(t, db, "Acme")

	dto, err := svc.Update(context.Background(), client.ID, &domain.UpdateClientRequest{
		Name:   "Acme Renamed",
		Email:  "new@acme.test",
		Status: domain.ClientStatusInactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Renamed", dto.Name)
	assert.Equal(t, "new@acme.test", dto.Email)
	assert.Equal(t, domain.ClientStatusInactive, dto.Status)
	// Omitted optional fields are replaced, not preserved
	assert.Empty(t, dto.CompanyName)
}

func TestClientService_List_FilterByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)

	testutil.CreateTestClient(t, db, "Active One")
	prospect := testutil.CreateTestClient(t, db, "Prospect One")
	require.NoError(t, db.Model(prospect).Update("status", domain.ClientStatusProspect).Error)

	dtos, total, err := svc.List(context.Background(), 1, 20, domain.ClientStatusProspect, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, dtos, 1)
	assert.Equal(t, prospect.ID, dtos[0].ID)
}

func TestClientService_List_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)

	_, _, err := svc.List(context.Background(), 1, 20, "bogus", "")
	assert.True(t, errors.Is(err, service.ErrInvalidInput))
}

func TestClientService_Delete_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)

	client := testutil.CreateTestClient(t, db, "Acme")
	project := testutil.CreateTestProject(t, db, client.ID, "Website", domain.ProjectStatusDevelopment, nil)
	sub := testutil.CreateTestSubscription(t, db, client.ID, 10, 1000)

	require.NoError(t, db.Create(&domain.ProjectCost{
		ProjectID: project.ID, Amount: 50, CostDate: *testutil.DaysAgo(1),
	}).Error)
	require.NoError(t, db.Create(&domain.SubscriptionService{
		SubscriptionID: sub.ID, Description: "Task",
	}).Error)
	require.NoError(t, db.Create(&domain.Payment{
		SubscriptionID: sub.ID, Amount: 1000, PaymentDate: *testutil.DaysAgo(1),
		ReferenceMonth: 1, ReferenceYear: 2026,
	}).Error)
	require.NoError(t, db.Create(&domain.Proposal{
		ClientID: client.ID, Title: "Upsell", Status: domain.ProposalStatusDraft,
	}).Error)
	require.NoError(t, db.Create(&domain.Alert{
		Type: domain.AlertTypeProjectDelayed, Title: "t", Message: "m",
		EntityID: project.ID, EntityType: "project", Priority: domain.AlertPriorityLow,
	}).Error)

	require.NoError(t, svc.Delete(context.Background(), client.ID))

	tables := map[string]interface{}{
		"projects":              &domain.Project{},
		"project_costs":         &domain.ProjectCost{},
		"subscriptions":         &domain.Subscription{},
		"subscription_services": &domain.SubscriptionService{},
		"payments":              &domain.Payment{},
		"proposals":             &domain.Proposal{},
		"alerts":                &domain.Alert{},
		"clients":               &domain.Client{},
	}
	for name, model := range tables {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.EqualValues(t, 0, count, "expected %s to be empty after cascade", name)
	}
}

func TestClientService_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newClientService(db)

	err := svc.Delete(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, service.ErrNotFound))
}
