package detailorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/orderdesk/internal/platform/db"
)

// Repository reads lines outside a transaction and opens transactions for writes.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context) ([]DetailOrder, error)
	Get(ctx context.Context, id int64) (*DetailOrder, error)
}

// TxRepository is the set of row operations the engine performs inside one transaction.
type TxRepository interface {
	OrderExists(ctx context.Context, orderID int64) (bool, error)
	GetProductForUpdate(ctx context.Context, productID int64) (ProductStock, error)
	GetLineForUpdate(ctx context.Context, orderID, productID int64) (DetailOrder, error)
	InsertLine(ctx context.Context, line DetailOrder) (int64, error)
	UpdateLine(ctx context.Context, line DetailOrder) error
	DeleteLine(ctx context.Context, id int64) error
	SetAvailability(ctx context.Context, productID int64, availability int) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PGRepository is the PostgreSQL Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// WithTx runs fn in a read-committed transaction. Row locks taken by the
// ForUpdate methods serialise writers on the same product.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{db: tx})
	})
}

const lineColumns = `id, order_id, product_id, count, price_uni, price_total`

func scanLine(row pgx.Row) (DetailOrder, error) {
	var line DetailOrder
	err := row.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Count, &line.PriceUni, &line.PriceTotal)
	return line, err
}

func (r *PGRepository) List(ctx context.Context) ([]DetailOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lineColumns+` FROM detail_orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list order details: %w", err)
	}
	defer rows.Close()

	lines := []DetailOrder{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*DetailOrder, error) {
	line, err := scanLine(r.pool.QueryRow(ctx, `SELECT `+lineColumns+` FROM detail_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order detail: %w", err)
	}
	return &line, nil
}

type txRepo struct {
	db dbtx
}

func (r *txRepo) OrderExists(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists)
	return exists, err
}

func (r *txRepo) GetProductForUpdate(ctx context.Context, productID int64) (ProductStock, error) {
	var p ProductStock
	err := r.db.QueryRow(ctx,
		`SELECT id, price, availability FROM products WHERE id = $1 FOR UPDATE`, productID,
	).Scan(&p.ID, &p.Price, &p.Availability)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductStock{}, ErrProductNotFound
		}
		return ProductStock{}, err
	}
	return p, nil
}

func (r *txRepo) GetLineForUpdate(ctx context.Context, orderID, productID int64) (DetailOrder, error) {
	line, err := scanLine(r.db.QueryRow(ctx,
		`SELECT `+lineColumns+` FROM detail_orders WHERE order_id = $1 AND product_id = $2 FOR UPDATE`,
		orderID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DetailOrder{}, ErrNotFound
		}
		return DetailOrder{}, err
	}
	return line, nil
}

func (r *txRepo) InsertLine(ctx context.Context, line DetailOrder) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO detail_orders (order_id, product_id, count, price_uni, price_total)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		line.OrderID, line.ProductID, line.Count, line.PriceUni, line.PriceTotal,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrDuplicateLine
		}
		return 0, err
	}
	return id, nil
}

func (r *txRepo) UpdateLine(ctx context.Context, line DetailOrder) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE detail_orders SET count = $1, price_uni = $2, price_total = $3 WHERE id = $4`,
		line.Count, line.PriceUni, line.PriceTotal, line.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepo) DeleteLine(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM detail_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepo) SetAvailability(ctx context.Context, productID int64, availability int) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET availability = $1 WHERE id = $2`, availability, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
