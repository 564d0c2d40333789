package products

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name         *string          `json:"name" validate:"required"`
	Description  *string          `json:"description" validate:"required"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	Availability *int             `json:"availability" validate:"required,gte=0"`
}

// UpdateProductRequest is a patch: nil fields are left untouched.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Availability *int             `json:"availability,omitempty" validate:"omitempty,gte=0"`
}

func (r UpdateProductRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.Availability == nil
}

type SetAvailabilityRequest struct {
	Availability *int `json:"availability" validate:"required,gte=0"`
}
