package clients

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
	clients, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list clients failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load clients", err)
		return
	}
	httpx.JSON(w, http.StatusOK, clients)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("get client failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Failed to load client", err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	client, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create client failed", "error", err)
		httpx.Fail(w, http.StatusBadRequest, "No saved", err)
		return
	}
	h.logger.Info("client created", "id", client.ID)
	httpx.JSON(w, http.StatusOK, httpx.Body{Message: "success", ID: &client.ID})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	var req UpdateClientRequest
	if err := httpx.Bind(r, &req); err != nil {
		httpx.RespondBindError(w, err)
		return
	}

	if _, err := h.service.Update(r.Context(), id, req); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("update client failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Update failed", err)
		return
	}
	httpx.Message(w, http.StatusOK, "client updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.InvalidID(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("delete client failed", "error", err, "id", id)
		httpx.Fail(w, http.StatusBadRequest, "Deletion failed", err)
		return
	}
	httpx.Message(w, http.StatusOK, "Client deleted successfully")
}
