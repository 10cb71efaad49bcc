package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

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

func newPaymentService(db *gorm.DB) *service.PaymentService {
	return service.NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewSubscriptionRepository(db),
		zap.NewNop(),
	)
}

func TestPaymentService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPaymentService(db)
	client := testutil.CreateTestClient(t, db, "Acme")
	sub := testutil.CreateTestSubscription(t, db, client.ID, 10, 1000)

	dto, err := svc.Create(context.Background(), sub.ID, &domain.CreatePaymentRequest{
		Amount:         1000,
		PaymentDate:    time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		ReferenceMonth: 8,
		ReferenceYear:  2026,
	})
	require.NoError(t, err)

	assert.Equal(t, sub.ID, dto.SubscriptionID)
	assert.Equal(t, 8, dto.ReferenceMonth)
	assert.Equal(t, 2026, dto.ReferenceYear)
}

func TestPaymentService_Create_UnknownSubscription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPaymentService(db)

	_, err := svc.Create(context.Background(), uuid.New(), &domain.CreatePaymentRequest{
		Amount:         1000,
		PaymentDate:    time.Now(),
		ReferenceMonth: 8,
		ReferenceYear:  2026,
	})
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestPaymentService_ListBySubscription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPaymentService(db)
	client := testutil.CreateTestClient(t, db, "Acme")
	sub := testutil.CreateTestSubscription(t, db, client.ID, 10, 1000)
	other := testutil.CreateTestSubscription(t, db, client.ID, 20, 2000)

	for month := 1; month <= 3; month++ {
		_, err := svc.Create(context.Background(), sub.ID, &domain.CreatePaymentRequest{
			Amount:         1000,
			PaymentDate:    time.Date(2026, time.Month(month), 10, 0, 0, 0, 0, time.UTC),
			ReferenceMonth: month,
			ReferenceYear:  2026,
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), other.ID, &domain.CreatePaymentRequest{
		Amount:         2000,
		PaymentDate:    time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC),
		ReferenceMonth: 1,
		ReferenceYear:  2026,
	})
	require.NoError(t, err)

	payments, err := svc.ListBySubscription(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 3)
	for _, p := range payments {
		assert.Equal(t, sub.ID, p.SubscriptionID)
	}
}
