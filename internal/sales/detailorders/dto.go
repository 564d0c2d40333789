package detailorders

type ReserveRequest struct {
	OrderID   *int64 `json:"order_id" validate:"required"`
	ProductID *int64 `json:"product_id" validate:"required"`
	Count     *int   `json:"count" validate:"required,gte=0"`
}

type ReleaseRequest struct {
	OrderID   *int64 `json:"order_id" validate:"required"`
	ProductID *int64 `json:"product_id" validate:"required"`
}
