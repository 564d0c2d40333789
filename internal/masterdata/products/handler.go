package products

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
	products, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("get product failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "No saved", err)
		return
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create product failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "No saved", err)
		return
	}
	h.logger.Info("product created", "id", product.ID)
	httpx.JSON(w, http.StatusOK, httpx.Body{Message: "success", ID: &product.ID})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	var req UpdateProductRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Update failed", err)
		return
	}

	if _, err := h.service.Update(r.Context(), id, req); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("update product failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Update failed", err)
		return
	}
	httpx.Message(w, http.StatusOK, "Product updated successfully")
}

// Delete does not remove the row; it overwrites the product availability.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	var req SetAvailabilityRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	if _, err := h.service.SetAvailability(r.Context(), id, *req.Availability); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("set product availability failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Deletion failed", err)
		return
	}
	httpx.Message(w, http.StatusOK, "Product update successfully")
}
