package integrity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs checks against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Find executes check.Query and tags each row with the check kind.
func (r *Repository) Find(ctx context.Context, check Check) ([]Violation, error) {
	rows, err := r.pool.Query(ctx, check.Query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Violation
	for rows.Next() {
		v := Violation{Kind: check.Kind, Entity: check.Entity}
		if err := rows.Scan(&v.EntityID, &v.Detail); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
