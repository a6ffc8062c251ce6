package products

import (
	"time"
)

// Category groups products and supplies the SKU prefix for its members.
type Category struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable or consumable gym item. SKU is generated on create
// and never changes afterwards.
type Product struct {
	ID           int64     `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	CategoryID   int64     `json:"category_id"`
	Price        float64   `json:"price"`
	CostPrice    float64   `json:"cost_price"`
	ReorderPoint int64     `json:"reorder_point"`
	ReorderQty   int64     `json:"reorder_qty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
