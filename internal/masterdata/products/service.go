package products

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

func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.StoreFailure("list products", err)
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, shared.StoreFailure("get product", err)
	}
	return product, nil
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if req.Name == nil || req.Description == nil || req.Price == nil || req.Availability == nil {
		return nil, fmt.Errorf("%w: name, description, price and availability are required", shared.ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, &shared.FieldError{Field: "price", Tag: "gte", Param: "0"}
	}
	if *req.Availability < 0 {
		return nil, &shared.FieldError{Field: "availability", Tag: "gte", Param: "0"}
	}

	product := Product{
		Name:         *req.Name,
		Description:  *req.Description,
		Price:        *req.Price,
		Availability: *req.Availability,
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Create(ctx, product)
		return err
	})
	if err != nil {
		return nil, shared.StoreFailure("create product", err)
	}

	product.ID = id
	return &product, nil
}

// Update applies the present fields of req to product id.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, &shared.FieldError{Field: "price", Tag: "gte", Param: "0"}
	}
	if req.Availability != nil && *req.Availability < 0 {
		return nil, &shared.FieldError{Field: "availability", Tag: "gte", Param: "0"}
	}

	var updated *Product
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
		return nil, shared.StoreFailure("update product", err)
	}
	return updated, nil
}

// SetAvailability overwrites the free stock of product id.
func (s *Service) SetAvailability(ctx context.Context, id int64, availability int) (*Product, error) {
	return s.Update(ctx, id, UpdateProductRequest{Availability: &availability})
}
