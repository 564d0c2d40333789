package clients

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.StoreFailure("list clients", err)
	}
	return clients, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, shared.StoreFailure("get client", err)
	}
	return client, nil
}

func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	if req.Name == nil || req.Email == nil || req.Address == nil {
		return nil, fmt.Errorf("%w: name, email and address are required", shared.ErrValidation)
	}
	client := Client{Name: *req.Name, Email: *req.Email, Address: *req.Address}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Create(ctx, client)
		return err
	})
	if err != nil {
		return nil, shared.StoreFailure("create client", err)
	}
	client.ID = id
	return &client, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateClientRequest) (*Client, error) {
	var updated *Client
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
		return nil, shared.StoreFailure("update client", err)
	}
	return updated, nil
}

// Delete removes the client row. Orders referencing it are left in place.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Delete(ctx, id)
	})
	return shared.StoreFailure("delete client", err)
}

// Exists reports whether client id is present.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, shared.StoreFailure("check client", err)
	}
	return ok, nil
}
