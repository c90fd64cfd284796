package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
)

// paymentMethodService implements the PaymentMethodSvcFacade.
type paymentMethodService struct {
	BaseService
	paymentMethodRepo portsrepo.PaymentMethodRepository
	clock             civiltime.Clock
}

// NewPaymentMethodService creates the payment method service.
func NewPaymentMethodService(paymentMethodRepo portsrepo.PaymentMethodRepository, clock civiltime.Clock) portssvc.PaymentMethodSvcFacade {
	return &paymentMethodService{paymentMethodRepo: paymentMethodRepo, clock: clock}
}

var _ portssvc.PaymentMethodSvcFacade = (*paymentMethodService)(nil)

func (s *paymentMethodService) ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	paymentMethods, err := s.paymentMethodRepo.ListPaymentMethods(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment methods")
		return nil, err
	}
	return paymentMethods, nil
}

func (s *paymentMethodService) CreatePaymentMethod(ctx context.Context, userID string, req dto.CreatePaymentMethodRequest) (*domain.PaymentMethod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("payment method name must not be empty")
	}

	now := s.clock.Now()
	paymentMethod := domain.PaymentMethod{
		PaymentMethodID: uuid.NewString(),
		UserID:          userID,
		Name:            name,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.paymentMethodRepo.SavePaymentMethod(ctx, paymentMethod); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("a payment method with this name already exists")
		}
		s.LogError(ctx, err, "Failed to save payment method", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Payment method created", slog.String("payment_method_id", paymentMethod.PaymentMethodID), slog.String("name", name))
	return &paymentMethod, nil
}

func (s *paymentMethodService) UpdatePaymentMethod(ctx context.Context, userID, paymentMethodID string, req dto.UpdatePaymentMethodRequest) (*domain.PaymentMethod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("payment method name must not be empty")
	}

	paymentMethod, err := s.paymentMethodRepo.FindPaymentMethodByID(ctx, userID, paymentMethodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment method", slog.String("payment_method_id", paymentMethodID))
		}
		return nil, err
	}

	paymentMethod.Name = name
	paymentMethod.UpdatedAt = s.clock.Now()

	if err := s.paymentMethodRepo.UpdatePaymentMethod(ctx, *paymentMethod); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("a payment method with this name already exists")
		}
		s.LogError(ctx, err, "Failed to update payment method", slog.String("payment_method_id", paymentMethodID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment method updated", slog.String("payment_method_id", paymentMethodID))
	return paymentMethod, nil
}

func (s *paymentMethodService) DeletePaymentMethod(ctx context.Context, userID, paymentMethodID string) error {
	if err := s.paymentMethodRepo.DeletePaymentMethod(ctx, userID, paymentMethodID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("payment method is still referenced by transactions or templates")
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete payment method", slog.String("payment_method_id", paymentMethodID))
		}
		return err
	}
	s.LogInfo(ctx, "Payment method deleted", slog.String("payment_method_id", paymentMethodID))
	return nil
}
