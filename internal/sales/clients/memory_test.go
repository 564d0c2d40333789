package clients

import (
	"context"
	"sort"
)

type memoryRepo struct {
	clients map[int64]Client
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{clients: make(map[int64]Client)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) List(ctx context.Context) ([]Client, error) {
	out := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.clients[id]
	return ok, nil
}

func (r *memoryRepo) Create(ctx context.Context, client Client) (int64, error) {
	r.nextID++
	client.ID = r.nextID
	r.clients[client.ID] = client
	return client.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, patch UpdateClientRequest) error {
	c, ok := r.clients[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Address != nil {
		c.Address = *patch.Address
	}
	r.clients[id] = c
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func ptr[T any](v T) *T { return &v }
