package delivery

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

// OrderLookup reports whether an order exists.
type OrderLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles delivery business logic.
type Service struct {
	repo   Repository
	orders OrderLookup
}

// NewService creates a new delivery service.
func NewService(repo Repository, orders OrderLookup) *Service {
	return &Service{repo: repo, orders: orders}
}

func (s *Service) List(ctx context.Context) ([]Delivery, error) {
	deliveries, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.StoreFailure("list deliveries", err)
	}
	return deliveries, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Delivery, error) {
	delivery, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, shared.StoreFailure("get delivery", err)
	}
	return delivery, nil
}

func (s *Service) requireOrder(ctx context.Context, id int64) error {
	ok, err := s.orders.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}

// Create records a delivery for an existing order.
func (s *Service) Create(ctx context.Context, req CreateDeliveryRequest) (*Delivery, error) {
	if req.Address == nil || req.Status == nil || req.OrderID == nil {
		return nil, fmt.Errorf("%w: address, status and order_id are required", shared.ErrValidation)
	}
	if err := s.requireOrder(ctx, *req.OrderID); err != nil {
		return nil, shared.StoreFailure("create delivery", err)
	}

	delivery := Delivery{OrderID: *req.OrderID, Address: *req.Address, Status: *req.Status}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, delivery)
		delivery.ID = id
		return err
	})
	if err != nil {
		return nil, shared.StoreFailure("create delivery", err)
	}
	return &delivery, nil
}

// Update applies a partial change. A new order_id must reference an existing order.
func (s *Service) Update(ctx context.Context, id int64, req UpdateDeliveryRequest) (*Delivery, error) {
	if req.OrderID != nil {
		if err := s.requireOrder(ctx, *req.OrderID); err != nil {
			return nil, shared.StoreFailure("update delivery", err)
		}
	}

	var updated *Delivery
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		if !req.empty() {
			if err := repo.Update(ctx, id, req); err != nil {
				return err
			}
		}
		var err error
		updated, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, shared.StoreFailure("update delivery", err)
	}
	return updated, nil
}

// SetStatus overwrites the delivery status. It backs DELETE, which never removes rows.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*Delivery, error) {
	return s.Update(ctx, id, UpdateDeliveryRequest{Status: &status})
}
