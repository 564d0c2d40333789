package detailorders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/odyssey-erp/orderdesk/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Recorder counts stock operations by outcome.
type Recorder interface {
	ObserveStockOperation(op, result string)
}

const (
	opReserve = "reserve"
	opRelease = "release"
)

// Service applies the inventory rule to order lines.
type Service struct {
	repo    Repository
	audit   AuditPort
	metrics Recorder
	logger  *slog.Logger
}

// NewService builds Service. audit and metrics may be nil.
func NewService(repo Repository, audit AuditPort, metrics Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, metrics: metrics, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]DetailOrder, error) {
	lines, err := s.repo.List(ctx)
	if err != nil {
		return nil, shared.StoreFailure("list order details", err)
	}
	return lines, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*DetailOrder, error) {
	line, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, shared.StoreFailure("get order detail", err)
	}
	return line, nil
}

// Reserve sets the line for (order, product) to in.Count units, creating it
// when absent, and moves the difference out of product availability. The
// product row is locked before the line so concurrent writers on one product
// serialise. Nothing is written unless every check passes.
func (s *Service) Reserve(ctx context.Context, in ReserveInput) (ReserveResult, error) {
	if in.Count < 0 {
		s.observe(opReserve, "invalid")
		return ReserveResult{}, &shared.FieldError{Field: "count", Tag: "gte", Param: "0"}
	}

	var result ReserveResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.OrderExists(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotFound
		}
		product, err := tx.GetProductForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		line, err := tx.GetLineForUpdate(ctx, in.OrderID, in.ProductID)
		switch {
		case errors.Is(err, ErrNotFound):
			if product.Availability < in.Count {
				return ErrInsufficientStock
			}
			line = DetailOrder{
				OrderID:    in.OrderID,
				ProductID:  in.ProductID,
				Count:      in.Count,
				PriceUni:   product.Price,
				PriceTotal: shared.LineTotal(in.Count, product.Price),
			}
			id, err := tx.InsertLine(ctx, line)
			if err != nil {
				return err
			}
			line.ID = id
			result = ReserveResult{Outcome: OutcomeCreated, Line: line, Delta: in.Count}
		case err != nil:
			return err
		default:
			delta := in.Count - line.Count
			if product.Availability < delta {
				return ErrInsufficientStock
			}
			line.Count = in.Count
			line.PriceUni = product.Price
			line.PriceTotal = shared.LineTotal(in.Count, product.Price)
			if err := tx.UpdateLine(ctx, line); err != nil {
				return err
			}
			result = ReserveResult{Outcome: OutcomeUpdated, Line: line, Delta: delta}
		}

		result.Availability = product.Availability - result.Delta
		if result.Delta == 0 {
			return nil
		}
		return tx.SetAvailability(ctx, product.ID, result.Availability)
	})
	if err != nil {
		s.observe(opReserve, resultLabel(err))
		return ReserveResult{}, shared.StoreFailure("reserve stock", err)
	}

	s.observe(opReserve, string(result.Outcome))
	s.record(ctx, "detailorder:reserve", result.Line, map[string]any{
		"outcome":      result.Outcome,
		"count":        result.Line.Count,
		"delta":        result.Delta,
		"availability": result.Availability,
	})
	return result, nil
}

// Release deletes the line for (order, product) and returns its count to
// product availability in the same transaction.
func (s *Service) Release(ctx context.Context, orderID, productID int64) (ReleaseResult, error) {
	var result ReleaseResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := tx.GetProductForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return ErrNotFound
			}
			return err
		}
		line, err := tx.GetLineForUpdate(ctx, orderID, productID)
		if err != nil {
			return err
		}

		availability := product.Availability + line.Count
		if err := tx.SetAvailability(ctx, product.ID, availability); err != nil {
			return err
		}
		if err := tx.DeleteLine(ctx, line.ID); err != nil {
			return err
		}
		result = ReleaseResult{Line: line, Availability: availability}
		return nil
	})
	if err != nil {
		s.observe(opRelease, resultLabel(err))
		return ReleaseResult{}, shared.StoreFailure("release stock", err)
	}

	s.observe(opRelease, "released")
	s.record(ctx, "detailorder:release", result.Line, map[string]any{
		"count":        result.Line.Count,
		"availability": result.Availability,
	})
	return result, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, shared.ErrInsufficientStock):
		return "insufficient"
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

func (s *Service) observe(op, result string) {
	if s.metrics != nil {
		s.metrics.ObserveStockOperation(op, result)
	}
}

func (s *Service) record(ctx context.Context, action string, line DetailOrder, meta map[string]any) {
	if s.audit == nil {
		return
	}
	meta["order_id"] = line.OrderID
	meta["product_id"] = line.ProductID
	err := s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "detail_order",
		EntityID: fmt.Sprintf("%d:%d", line.OrderID, line.ProductID),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit record failed", "action", action, "error", err)
	}
}
