package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

// ClientLookup reports whether a client exists.
type ClientLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo    Repository
	clients ClientLookup
	now     func() time.Time
}

func NewService(repo Repository, clients ClientLookup) *Service {
	return &Service{repo: repo, clients: clients, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.StoreFailure("list orders", err)
	}
	return orders, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, shared.StoreFailure("get order", err)
	}
	return order, nil
}

// Exists reports whether order id is present.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, shared.StoreFailure("check order", err)
	}
	return ok, nil
}

func (s *Service) requireClient(ctx context.Context, id int64) error {
	ok, err := s.clients.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrClientNotFound
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.ClientID == nil || req.Status == nil {
		return nil, fmt.Errorf("%w: client_id and status are required", shared.ErrValidation)
	}
	if err := s.requireClient(ctx, *req.ClientID); err != nil {
		return nil, shared.StoreFailure("create order", err)
	}

	order := Order{ClientID: *req.ClientID, Status: *req.Status, Date: s.now().UTC()}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, order)
		order.ID = id
		return err
	})
	if err != nil {
		return nil, shared.StoreFailure("create order", err)
	}
	return &order, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if req.ClientID != nil {
		if err := s.requireClient(ctx, *req.ClientID); err != nil {
			return nil, shared.StoreFailure("update order", err)
		}
	}

	var updated *Order
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
		return nil, shared.StoreFailure("update order", err)
	}
	return updated, nil
}

// Disable sets the order status to StatusDisabled; the row is kept.
func (s *Service) Disable(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.SetStatus(ctx, id, StatusDisabled)
	})
	return shared.StoreFailure("disable order", err)
}
