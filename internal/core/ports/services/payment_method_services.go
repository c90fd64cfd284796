package services

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
)

// PaymentMethodSvcFacade manages payment methods.
type PaymentMethodSvcFacade interface {
	ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, userID string, req dto.CreatePaymentMethodRequest) (*domain.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, userID, paymentMethodID string, req dto.UpdatePaymentMethodRequest) (*domain.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, userID, paymentMethodID string) error
}
