package inventory

import (
	"errors"
	"time"
)

// ReorderStatus enumerates the reorder request lifecycle.
//
// Transitions form a strict partial order:
//
//	pending -> approved -> received
//	pending -> rejected
//
// rejected and received are terminal.
type ReorderStatus string

const (
	// StatusPending is the initial state of every request.
	StatusPending ReorderStatus = "pending"
	// StatusApproved marks a request cleared for purchase.
	StatusApproved ReorderStatus = "approved"
	// StatusRejected is terminal; the request was declined.
	StatusRejected ReorderStatus = "rejected"
	// StatusReceived is terminal; goods arrived and stock was reconciled.
	StatusReceived ReorderStatus = "received"
)

// ReorderRequest is the ledger entry for one restock intent. Cost fields are
// snapshots taken at creation time and never change afterwards.
type ReorderRequest struct {
	ID               int64
	Number           string
	ProductID        int64
	LocationID       int64
	VendorID         int64
	Quantity         int64
	UnitCost         float64
	TotalCost        float64
	Status           ReorderStatus
	RequestedBy      string
	ApprovedBy       string
	ApprovedAt       time.Time
	QuantityReceived int64
	ReceivedAt       time.Time
	Notes            string
	CreatedAt        time.Time
}

// ReorderListItem joins display attributes onto a ledger row for list views.
type ReorderListItem struct {
	ReorderRequest
	ProductName  string
	ProductSKU   string
	LocationName string
	VendorName   string
}

// ReorderFilter narrows List results. Zero values mean "any".
type ReorderFilter struct {
	Status     ReorderStatus
	LocationID int64
	DateFrom   time.Time
	DateTo     time.Time
}

// StockLevel is the on-hand quantity of one product at one location.
// A missing row reads as quantity zero.
type StockLevel struct {
	ProductID       int64
	LocationID      int64
	Quantity        int64
	LastRestockedAt time.Time
}

// LowStockItem flags a product at or below its reorder point at a location.
type LowStockItem struct {
	ProductID    int64
	ProductName  string
	ProductSKU   string
	LocationID   int64
	LocationName string
	Quantity     int64
	ReorderPoint int64
	ReorderQty   int64
}

// ReorderStats aggregates ledger state for the dashboard.
type ReorderStats struct {
	PendingCount    int64
	PendingValue    float64
	ReceivedLast7d  int64
	TotalRequests   int64
	TotalOrderValue float64
}

// Advisory is a non-blocking warning attached to a successful result.
// Advisories never fail the operation that produced them.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	// AdvisoryPartialReceipt flags receipts materially below the ordered quantity.
	AdvisoryPartialReceipt = "partial_receipt"
	// AdvisoryCostAbovePrice flags orders where unit cost exceeds the selling price.
	AdvisoryCostAbovePrice = "cost_above_price"
)

// ProductInfo is the product attribute slice the lifecycle engine needs.
type ProductInfo struct {
	ID           int64
	SKU          string
	Name         string
	Price        float64
	CostPrice    float64
	ReorderPoint int64
	ReorderQty   int64
	Active       bool
}

var (
	// ErrNotFound indicates a referenced record is missing.
	ErrNotFound = errors.New("inventory: not found")
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("inventory: invalid input")
	// ErrInvalidTransition occurs when an action violates the status workflow.
	ErrInvalidTransition = errors.New("inventory: invalid state transition")
	// ErrQuantityExceedsOrder occurs when a receipt exceeds the ordered quantity.
	ErrQuantityExceedsOrder = errors.New("inventory: received quantity exceeds ordered quantity")
	// ErrNegativeStock triggered when an adjustment would drive quantity below zero.
	ErrNegativeStock = errors.New("inventory: negative stock not allowed")
)
