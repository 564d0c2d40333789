package orders

import (
	"fmt"
	"time"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

var (
	// ErrNotFound is returned when an order id does not exist.
	ErrNotFound = fmt.Errorf("order %w", shared.ErrNotFound)
	// ErrClientNotFound is returned when an order references a missing client.
	ErrClientNotFound = fmt.Errorf("client %w", shared.ErrNotFound)
)

// Status values. A disabled order is kept for history.
const (
	StatusDisabled = 0
	StatusActive   = 1
)

type Order struct {
	ID       int64     `json:"id"`
	ClientID int64     `json:"client_id"`
	Status   int       `json:"status"`
	Date     time.Time `json:"date"`
}
