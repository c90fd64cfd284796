package repositories

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// PaymentMethodRepository persists payment methods.
type PaymentMethodRepository interface {
	ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	FindPaymentMethodByID(ctx context.Context, userID, paymentMethodID string) (*domain.PaymentMethod, error)
	// FindPaymentMethodsByIDs returns the subset of ids that exist, keyed by id.
	FindPaymentMethodsByIDs(ctx context.Context, userID string, paymentMethodIDs []string) (map[string]domain.PaymentMethod, error)
	SavePaymentMethod(ctx context.Context, paymentMethod domain.PaymentMethod) error
	UpdatePaymentMethod(ctx context.Context, paymentMethod domain.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, userID, paymentMethodID string) error
}
