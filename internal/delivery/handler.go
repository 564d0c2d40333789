package delivery

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/orderdesk/internal/platform/httpx"
)

// Handler exposes delivery endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a new delivery handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list deliveries failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load deliveries", err)
		return
	}
	httpx.JSON(w, http.StatusOK, deliveries)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	delivery, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "delivery not found")
			return
		}
		h.logger.Error("get delivery failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load delivery", err)
		return
	}
	httpx.JSON(w, http.StatusOK, delivery)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDeliveryRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	delivery, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			httpx.Message(w, http.StatusNotFound, "order does not exist")
			return
		}
		h.logger.Error("create delivery failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "No saved", err)
		return
	}
	h.logger.Info("delivery created", "id", delivery.ID, "order_id", delivery.OrderID)
	httpx.Created(w, http.StatusCreated, "Delivery created successfully", delivery.ID)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	var req UpdateDeliveryRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	if _, err := h.service.Update(r.Context(), id, req); err != nil {
		h.respondWriteError(w, err, id)
		return
	}
	httpx.Message(w, http.StatusOK, "Delivery updated successfully")
}

// Delete overwrites the delivery status with the one in the body.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	var req SetStatusRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	if _, err := h.service.SetStatus(r.Context(), id, *req.Status); err != nil {
		h.respondWriteError(w, err, id)
		return
	}
	httpx.Message(w, http.StatusOK, "Delivery update successfully")
}

func (h *Handler) respondWriteError(w http.ResponseWriter, err error, id int64) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		httpx.Message(w, http.StatusNotFound, "order does not exist")
	case errors.Is(err, ErrNotFound):
		httpx.Message(w, http.StatusNotFound, "delivery not found")
	default:
		h.logger.Error("update delivery failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Update failed", err)
	}
}
