package detailorders

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/orderdesk/internal/platform/httpx"
	"github.com/odyssey-erp/orderdesk/internal/shared"
)

type Handler struct {
	logger      *slog.Logger
	service     *Service
	idempotency *shared.IdempotencyStore
}

// NewHandler builds Handler. A nil idempotency store disables the
// Idempotency-Key guard.
func NewHandler(logger *slog.Logger, service *Service, idempotency *shared.IdempotencyStore) *Handler {
	return &Handler{logger: logger, service: service, idempotency: idempotency}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list order details failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load order details", err)
		return
	}
	httpx.JSON(w, http.StatusOK, lines)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	line, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Order detail not found")
			return
		}
		h.logger.Error("get order detail failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load order detail", err)
		return
	}
	httpx.JSON(w, http.StatusOK, line)
}

// Reserve creates or resizes the line for the posted (order_id, product_id).
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req ReserveRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	in := ReserveInput{OrderID: *req.OrderID, ProductID: *req.ProductID, Count: *req.Count}
	result, err := h.service.Reserve(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Order or product not found")
		case errors.Is(err, shared.ErrInsufficientStock):
			httpx.Error(w, http.StatusBadRequest, "Product not available in sufficient quantity")
		default:
			h.logger.Error("reserve stock failed", "error", err, "order_id", in.OrderID, "product_id", in.ProductID)
			httpx.Fail(w, http.StatusBadRequest, "No saved", err)
		}
		return
	}

	h.logger.Info("order detail reserved",
		"order_id", in.OrderID, "product_id", in.ProductID,
		"outcome", result.Outcome, "delta", result.Delta, "availability", result.Availability)
	if result.Outcome == OutcomeCreated {
		httpx.Message(w, http.StatusCreated, "Order detail created successfully")
		return
	}
	httpx.Message(w, http.StatusCreated, "Order detail update successfully")
}

// Release removes the line for the posted (order_id, product_id).
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	var req ReleaseRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	result, err := h.service.Release(r.Context(), *req.OrderID, *req.ProductID)
	if err != nil {
		h.logger.Warn("release stock failed", "error", err, "order_id", *req.OrderID, "product_id", *req.ProductID)
		httpx.Message(w, http.StatusBadRequest, "Product could not be removed from the order")
		return
	}

	h.logger.Info("order detail released",
		"order_id", result.Line.OrderID, "product_id", result.Line.ProductID, "availability", result.Availability)
	httpx.Message(w, http.StatusOK, "Product removed from order successfully")
}
