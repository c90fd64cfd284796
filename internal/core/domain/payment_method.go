package domain

// PaymentMethod is a user-defined way of paying (card, cash, wallet, ...).
type PaymentMethod struct {
	PaymentMethodID string `json:"paymentMethodID"` // Primary Key (UUID)
	UserID          string `json:"userID"`
	Name            string `json:"name"`
	AuditFields
}
