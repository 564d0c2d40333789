package orders

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/orderdesk/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("get order failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			httpx.Message(w, http.StatusNotFound, "client does not exist")
			return
		}
		h.logger.Error("create order failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "No saved", err)
		return
	}
	h.logger.Info("order created", "id", order.ID, "client_id", order.ClientID)
	httpx.Created(w, http.StatusCreated, "Order created successfully", order.ID)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	var req UpdateOrderRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	if _, err := h.service.Update(r.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, ErrClientNotFound):
			httpx.Message(w, http.StatusNotFound, "client does not exist")
		case errors.Is(err, ErrNotFound):
			httpx.Message(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("update order failed", "error", err, "id", id)
			httpx.Fail(w, http.StatusBadRequest, "Update failed", err)
		}
		return
	}
	httpx.Message(w, http.StatusOK, "order updated successfully")
}

// Delete disables the order instead of removing it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	if err := h.service.Disable(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("disable order failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Deletion failed", err)
		return
	}
	httpx.Message(w, http.StatusOK, "Disable order successfully")
}
