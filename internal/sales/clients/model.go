package clients

import (
	"fmt"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

// ErrNotFound is returned when a client id does not exist.
var ErrNotFound = fmt.Errorf("client %w", shared.ErrNotFound)

type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}
