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

func newProposalService(db *gorm.DB) *service.ProposalService {
	return service.NewProposalService(
		repository.NewProposalRepository(db),
		repository.NewClientRepository(db),
		zap.NewNop(),
	)
}

func TestProposalService_Create_DefaultsToDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProposalService(db)
	client := testutil.CreateTestClient(t, db, "Acme")

	dto, err := svc.Create(context.Background(), &domain.CreateProposalRequest{
		ClientID: client.ID,
		Title:    "Support retainer",
		Value:    5000,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ProposalStatusDraft, dto.Status)
	assert.Equal(t, "Acme", dto.ClientName)
}

func TestProposalService_Create_UnknownClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProposalService(db)

	_, err := svc.Create(context.Background(), &domain.CreateProposalRequest{
		ClientID: uuid.New(),
		Title:    "Orphan",
	})
	assert.True(t, errors.Is(err, service.ErrClientNotFound))
}

func TestProposalService_Update_StatusTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProposalService(db)
	client := testutil.CreateTestClient(t, db, "Acme")

	created, err := svc.Create(context.Background(), &domain.CreateProposalRequest{
		ClientID: client.ID,
		Title:    "Support retainer",
	})
	require.NoError(t, err)

	dto, err := svc.Update(context.Background(), created.ID, &domain.UpdateProposalRequest{
		Title:  "Support retainer",
		Status: domain.ProposalStatusSent,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalStatusSent, dto.Status)
}

func TestProposalService_List_FilterByStatusAndClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProposalService(db)
	clientA := testutil.CreateTestClient(t, db, "A")
	clientB := testutil.CreateTestClient(t, db, "B")

	_, err := svc.Create(context.Background(), &domain.CreateProposalRequest{
		ClientID: clientA.ID, Title: "Draft for A",
	})
	require.NoError(t, err)
	sent, err := svc.Create(context.Background(), &domain.CreateProposalRequest{
		ClientID: clientB.ID, Title: "Sent for B", Status: domain.ProposalStatusSent,
	})
	require.NoError(t, err)

	dtos, total, err := svc.List(context.Background(), 1, 20, domain.ProposalStatusSent, clientB.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, dtos, 1)
	assert.Equal(t, sent.ID, dtos[0].ID)
}

func TestProposalService_List_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProposalService(db)

	_, _, err := svc.List(context.Background(), 1, 20, "maybe", uuid.Nil)
	assert.True(t, errors.Is(err, service.ErrInvalidInput))
}

func TestProposalService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newProposalService(db)
	client := testutil.CreateTestClient(t, db, "Acme")

	created, err := svc.Create(context.Background(), &domain.CreateProposalRequest{
		ClientID: client.ID, Title: "Doomed",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.True(t, errors.Is(err, service.ErrNotFound))
}
