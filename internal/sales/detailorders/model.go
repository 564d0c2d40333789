// Package detailorders manages order lines and keeps product availability in
// step with them.
package detailorders

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

var (
	// ErrNotFound is returned when no line exists for the id or the (order, product) pair.
	ErrNotFound = fmt.Errorf("order detail %w", shared.ErrNotFound)
	// ErrOrderNotFound is returned when a reservation names a missing order.
	ErrOrderNotFound = fmt.Errorf("order %w", shared.ErrNotFound)
	// ErrProductNotFound is returned when a reservation names a missing product.
	ErrProductNotFound = fmt.Errorf("product %w", shared.ErrNotFound)
	// ErrInsufficientStock is returned when availability cannot cover the requested count.
	ErrInsufficientStock = fmt.Errorf("product not available in sufficient quantity: %w", shared.ErrInsufficientStock)
	// ErrDuplicateLine is returned when the (order, product) unique index rejects an insert.
	ErrDuplicateLine = errors.New("order detail already exists for order and product")
)

// DetailOrder is one product line of an order. PriceUni is the product price
// captured when the line was last written.
type DetailOrder struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	ProductID  int64           `json:"product_id"`
	Count      int             `json:"count"`
	PriceUni   decimal.Decimal `json:"price_uni"`
	PriceTotal decimal.Decimal `json:"price_total"`
}

// ProductStock is the slice of a product row the engine locks and adjusts.
type ProductStock struct {
	ID           int64
	Price        decimal.Decimal
	Availability int
}

// Outcome tells whether a reservation inserted or resized a line.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// ReserveInput names the line to create or resize.
type ReserveInput struct {
	OrderID   int64
	ProductID int64
	Count     int
}

// ReserveResult describes a committed reservation.
type ReserveResult struct {
	Outcome      Outcome     `json:"outcome"`
	Line         DetailOrder `json:"line"`
	Delta        int         `json:"delta"`
	Availability int         `json:"availability"`
}

// ReleaseResult describes a committed release.
type ReleaseResult struct {
	Line         DetailOrder `json:"line"`
	Availability int         `json:"availability"`
}
