package orders

import "time"

type CreateOrderRequest struct {
	ClientID *int64 `json:"client_id" validate:"required"`
	Status   *int   `json:"status" validate:"required,oneof=0 1"`
}

type UpdateOrderRequest struct {
	Date     *time.Time `json:"date,omitempty"`
	ClientID *int64     `json:"client_id,omitempty"`
	Status   *int       `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

func (r UpdateOrderRequest) empty() bool {
	return r.Date == nil && r.ClientID == nil && r.Status == nil
}
