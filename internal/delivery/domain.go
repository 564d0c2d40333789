// Package delivery tracks shipments of orders.
package delivery

import (
	"fmt"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

var (
	// ErrNotFound is returned when a delivery id does not exist.
	ErrNotFound = fmt.Errorf("delivery %w", shared.ErrNotFound)
	// ErrOrderNotFound is returned when a delivery references a missing order.
	ErrOrderNotFound = fmt.Errorf("order %w", shared.ErrNotFound)
)

// Delivery status is free text such as "pending" or "shipped".
type Delivery struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

type CreateDeliveryRequest struct {
	Address *string `json:"address" validate:"required"`
	Status  *string `json:"status" validate:"required"`
	OrderID *int64  `json:"order_id" validate:"required"`
}

type UpdateDeliveryRequest struct {
	Address *string `json:"address,omitempty"`
	Status  *string `json:"status,omitempty"`
	OrderID *int64  `json:"order_id,omitempty"`
}

func (r UpdateDeliveryRequest) empty() bool {
	return r.Address == nil && r.Status == nil && r.OrderID == nil
}

type SetStatusRequest struct {
	Status *string `json:"status" validate:"required"`
}
