package dto

import (
	"time"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// CreatePaymentMethodRequest defines the data needed to create a payment method.
type CreatePaymentMethodRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdatePaymentMethodRequest renames a payment method.
type UpdatePaymentMethodRequest struct {
	Name string `json:"name" binding:"required"`
}

// PaymentMethodResponse defines the data returned for a payment method.
type PaymentMethodResponse struct {
	PaymentMethodID string    `json:"paymentMethodID"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ListPaymentMethodsResponse wraps the list of payment methods.
type ListPaymentMethodsResponse struct {
	PaymentMethods []PaymentMethodResponse `json:"paymentMethods"`
}

// ToPaymentMethodResponse converts a domain.PaymentMethod to its response DTO.
func ToPaymentMethodResponse(pm *domain.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		PaymentMethodID: pm.PaymentMethodID,
		Name:            pm.Name,
		CreatedAt:       pm.CreatedAt,
	}
}

// ToListPaymentMethodsResponse converts a slice of payment methods to the list DTO.
func ToListPaymentMethodsResponse(pms []domain.PaymentMethod) ListPaymentMethodsResponse {
	res := ListPaymentMethodsResponse{PaymentMethods: make([]PaymentMethodResponse, len(pms))}
	for i := range pms {
		res.PaymentMethods[i] = ToPaymentMethodResponse(&pms[i])
	}
	return res
}
