package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/orderdesk/internal/platform/db"
)

// Repository persists deliveries.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context) ([]Delivery, error)
	Get(ctx context.Context, id int64) (*Delivery, error)
	Create(ctx context.Context, delivery Delivery) (int64, error)
	Update(ctx context.Context, id int64, patch UpdateDeliveryRequest) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository returns a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) List(ctx context.Context) ([]Delivery, error) {
	rows, err := r.db.Query(ctx, `SELECT id, order_id, address, status FROM deliveries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []Delivery{}
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Address, &d.Status); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Delivery, error) {
	var d Delivery
	err := r.db.QueryRow(ctx, `SELECT id, order_id, address, status FROM deliveries WHERE id = $1`, id).
		Scan(&d.ID, &d.OrderID, &d.Address, &d.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return &d, nil
}

func (r *repository) Create(ctx context.Context, delivery Delivery) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO deliveries (order_id, address, status) VALUES ($1, $2, $3) RETURNING id`,
		delivery.OrderID, delivery.Address, delivery.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert delivery: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, patch UpdateDeliveryRequest) error {
	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.OrderID != nil {
		add("order_id", *patch.OrderID)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE deliveries SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
