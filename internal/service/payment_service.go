package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsboard-hq/opsboard-api/internal/domain"
	"github.com/opsboard-hq/opsboard-api/internal/mapper"
	"github.com/opsboard-hq/opsboard-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	subRepo     *repository.SubscriptionRepository
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	subRepo *repository.SubscriptionRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		logger:      logger,
	}
}

func (s *PaymentService) Create(ctx context.Context, subscriptionID uuid.UUID, req *domain.CreatePaymentRequest) (*domain.PaymentDTO, error) {
	if _, err := s.subRepo.GetByID(ctx, subscriptionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	payment := &domain.Payment{
		SubscriptionID: subscriptionID,
		Amount:         req.Amount,
		PaymentDate:    req.PaymentDate,
		ReferenceMonth: req.ReferenceMonth,
		ReferenceYear:  req.ReferenceYear,
		ReceiptFile:    req.ReceiptFile,
		Notes:          req.Notes,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	dto := mapper.ToPaymentDTO(payment)
	return &dto, nil
}

func (s *PaymentService) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]domain.PaymentDTO, error) {
	if _, err := s.subRepo.GetByID(ctx, subscriptionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	payments, err := s.paymentRepo.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	dtos := make([]domain.PaymentDTO, len(payments))
	for i := range payments {
		dtos[i] = mapper.ToPaymentDTO(&payments[i])
	}
	return dtos, nil
}
