// Package integrity scans the store for rows that break the inventory rules.
package integrity

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Violation kinds.
const (
	KindNegativeAvailability = "negative_availability"
	KindPriceTotalMismatch   = "price_total_mismatch"
	KindDuplicateLine        = "duplicate_line"
	KindOrphanLineOrder      = "orphan_line_order"
	KindOrphanLineProduct    = "orphan_line_product"
	KindOrphanOrderClient    = "orphan_order_client"
	KindOrphanDeliveryOrder  = "orphan_delivery_order"
)

// Violation is one offending row.
type Violation struct {
	Kind     string `json:"kind"`
	Entity   string `json:"entity"`
	EntityID int64  `json:"entity_id"`
	Detail   string `json:"detail"`
}

// Check is a named query returning (entity id, detail) rows.
type Check struct {
	Kind   string
	Entity string
	Query  string
}

// DefaultChecks covers stock, line arithmetic, pair uniqueness and dangling references.
var DefaultChecks = []Check{
	{
		Kind:   KindNegativeAvailability,
		Entity: "product",
		Query:  `SELECT id, format('availability=%s', availability) FROM products WHERE availability < 0`,
	},
	{
		Kind:   KindPriceTotalMismatch,
		Entity: "detail_order",
		Query: `SELECT id, format('count=%s price_uni=%s price_total=%s', count, price_uni, price_total)
			FROM detail_orders WHERE price_total <> ROUND(count * price_uni, 2)`,
	},
	{
		Kind:   KindDuplicateLine,
		Entity: "detail_order",
		Query: `SELECT MIN(id), format('order_id=%s product_id=%s rows=%s', order_id, product_id, COUNT(*))
			FROM detail_orders GROUP BY order_id, product_id HAVING COUNT(*) > 1`,
	},
	{
		Kind:   KindOrphanLineOrder,
		Entity: "detail_order",
		Query: `SELECT d.id, format('order_id=%s', d.order_id)
			FROM detail_orders d LEFT JOIN orders o ON o.id = d.order_id WHERE o.id IS NULL`,
	},
	{
		Kind:   KindOrphanLineProduct,
		Entity: "detail_order",
		Query: `SELECT d.id, format('product_id=%s', d.product_id)
			FROM detail_orders d LEFT JOIN products p ON p.id = d.product_id WHERE p.id IS NULL`,
	},
	{
		Kind:   KindOrphanOrderClient,
		Entity: "order",
		Query: `SELECT o.id, format('client_id=%s', o.client_id)
			FROM orders o LEFT JOIN clients c ON c.id = o.client_id WHERE c.id IS NULL`,
	},
	{
		Kind:   KindOrphanDeliveryOrder,
		Entity: "delivery",
		Query: `SELECT d.id, format('order_id=%s', d.order_id)
			FROM deliveries d LEFT JOIN orders o ON o.id = d.order_id WHERE o.id IS NULL`,
	},
}

// Finder runs a single check.
type Finder interface {
	Find(ctx context.Context, check Check) ([]Violation, error)
}

// Report is the result of one scan.
type Report struct {
	Violations []Violation    `json:"violations"`
	ByKind     map[string]int `json:"by_kind"`
}

// Scanner runs every check and merges the findings.
type Scanner struct {
	finder Finder
	checks []Check
}

// NewScanner builds a Scanner. With no checks it uses DefaultChecks.
func NewScanner(finder Finder, checks ...Check) *Scanner {
	if len(checks) == 0 {
		checks = DefaultChecks
	}
	return &Scanner{finder: finder, checks: checks}
}

// Scan runs the checks concurrently. Any failing check fails the scan.
func (s *Scanner) Scan(ctx context.Context) (Report, error) {
	results := make([][]Violation, len(s.checks))
	g, ctx := errgroup.WithContext(ctx)
	for i, check := range s.checks {
		i, check := i, check
		g.Go(func() error {
			found, err := s.finder.Find(ctx, check)
			if err != nil {
				return fmt.Errorf("integrity: %s: %w", check.Kind, err)
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Violations: []Violation{}, ByKind: make(map[string]int, len(s.checks))}
	for i, check := range s.checks {
		report.ByKind[check.Kind] = len(results[i])
		report.Violations = append(report.Violations, results[i]...)
	}
	sort.SliceStable(report.Violations, func(a, b int) bool {
		if report.Violations[a].Kind != report.Violations[b].Kind {
			return report.Violations[a].Kind < report.Violations[b].Kind
		}
		return report.Violations[a].EntityID < report.Violations[b].EntityID
	})
	return report, nil
}
