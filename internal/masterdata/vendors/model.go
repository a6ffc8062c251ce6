package vendors

import "time"

// Vendor is a supplier reorder requests can be placed against. Name is
// unique across the tenant.
type Vendor struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Category     string    `json:"category"`
	PaymentTerms string    `json:"payment_terms"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
