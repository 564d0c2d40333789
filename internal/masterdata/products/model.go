package products

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

// ErrNotFound is returned when a product id does not exist.
var ErrNotFound = fmt.Errorf("product %w", shared.ErrNotFound)

// Product represents a sellable item and its free stock.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Availability int             `json:"availability"`
}
