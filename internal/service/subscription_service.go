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

// SubscriptionService assembles the subscription read model: the stored row
// joined with its client, the ordered service checklist, the latest payment
// and the billing fields computed fresh on every call.
type SubscriptionService struct {
	subRepo     *repository.SubscriptionRepository
	paymentRepo *repository.PaymentRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
}

func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	paymentRepo *repository.PaymentRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:     subRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

func (s *SubscriptionService) Create(ctx context.Context, req *domain.CreateSubscriptionRequest) (*domain.SubscriptionWithClientDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %s", ErrClientNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	status := req.Status
	if status == "" {
		status = domain.SubscriptionStatusActive
	}

	sub := &domain.Subscription{
		ClientID:   req.ClientID,
		BillingDay: req.BillingDay,
		Amount:     req.Amount,
		Status:     status,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return s.GetByID(ctx, sub.ID)
}

// GetByID returns the aggregated view of one subscription. A subscription
// whose client is gone is an error here, unlike List, which excludes it.
func (s *SubscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SubscriptionWithClientDTO, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub.Client == nil {
		s.logger.Warn("subscription references missing client",
			zap.String("subscription_id", sub.ID.String()),
			zap.String("client_id", sub.ClientID.String()),
		)
		return nil, fmt.Errorf("%w: subscription %s references client %s", ErrClientNotFound, sub.ID, sub.ClientID)
	}

	lastPayment, err := s.paymentRepo.LatestBySubscription(ctx, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest payment: %w", err)
	}

	dto := mapper.ToSubscriptionWithClientDTO(sub, lastPayment, time.Now())
	return &dto, nil
}

// List returns the aggregated view of all subscriptions. Orphaned rows
// (client deleted underneath) are logged and excluded rather than failing
// the whole response.
func (s *SubscriptionService) List(ctx context.Context, page, pageSize int, status domain.SubscriptionStatus) ([]domain.SubscriptionWithClientDTO, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid subscription status %q", ErrInvalidInput, status)
	}

	subs, total, err := s.subRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	now := time.Now()
	dtos := make([]domain.SubscriptionWithClientDTO, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		if sub.Client == nil {
			s.logger.Warn("excluding orphaned subscription from list",
				zap.String("subscription_id", sub.ID.String()),
				zap.String("client_id", sub.ClientID.String()),
			)
			total--
			continue
		}

		lastPayment, err := s.paymentRepo.LatestBySubscription(ctx, sub.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get latest payment: %w", err)
		}

		dtos = append(dtos, mapper.ToSubscriptionWithClientDTO(sub, lastPayment, now))
	}

	return dtos, total, nil
}

// Update applies a partial update (PATCH). Changing the billing day takes
// effect on the next read; the billing date itself is never stored.
func (s *SubscriptionService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSubscriptionRequest) (*domain.SubscriptionWithClientDTO, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if req.BillingDay != nil {
		sub.BillingDay = *req.BillingDay
	}
	if req.Amount != nil {
		sub.Amount = *req.Amount
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid subscription status %q", ErrInvalidInput, *req.Status)
		}
		sub.Status = *req.Status
	}

	// Save only the row's own columns; associations are managed through
	// their own endpoints.
	if err := s.subRepo.Update(ctx, &domain.Subscription{
		BaseModel:  sub.BaseModel,
		ClientID:   sub.ClientID,
		BillingDay: sub.BillingDay,
		Amount:     sub.Amount,
		Status:     sub.Status,
	}); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *SubscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.subRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get subscription: %w", err)
	}

	if err := s.subRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

// Service checklist operations

func (s *SubscriptionService) AddService(ctx context.Context, subscriptionID uuid.UUID, req *domain.CreateSubscriptionServiceRequest) (*domain.SubscriptionServiceDTO, error) {
	if _, err := s.subRepo.GetByID(ctx, subscriptionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	svc := &domain.SubscriptionService{
		SubscriptionID: subscriptionID,
		Description:    req.Description,
		DisplayOrder:   req.Order,
	}

	if err := s.subRepo.CreateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create subscription service: %w", err)
	}

	dto := mapper.ToSubscriptionServiceDTO(svc)
	return &dto, nil
}

func (s *SubscriptionService) UpdateService(ctx context.Context, subscriptionID, serviceID uuid.UUID, req *domain.UpdateSubscriptionServiceRequest) (*domain.SubscriptionServiceDTO, error) {
	svc, err := s.subRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription service: %w", err)
	}
	if svc.SubscriptionID != subscriptionID {
		return nil, ErrNotFound
	}

	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.IsCompleted != nil {
		svc.IsCompleted = *req.IsCompleted
	}
	if req.Order != nil {
		svc.DisplayOrder = *req.Order
	}

	if err := s.subRepo.UpdateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update subscription service: %w", err)
	}

	dto := mapper.ToSubscriptionServiceDTO(svc)
	return &dto, nil
}

func (s *SubscriptionService) DeleteService(ctx context.Context, subscriptionID, serviceID uuid.UUID) error {
	svc, err := s.subRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get subscription service: %w", err)
	}
	if svc.SubscriptionID != subscriptionID {
		return ErrNotFound
	}

	if err := s.subRepo.DeleteService(ctx, serviceID); err != nil {
		return fmt.Errorf("failed to delete subscription service: %w", err)
	}
	return nil
}
