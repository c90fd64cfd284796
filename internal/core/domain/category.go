package domain

// Category is a user-defined spending category.
type Category struct {
	CategoryID string `json:"categoryID"` // Primary Key (UUID)
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	AuditFields
}
