package detailorders

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const idempotencyModule = "detailorders"

func (h *Handler) MountRoutes(r chi.Router) {
	guard := func(next http.Handler) http.Handler { return next }
	if h.idempotency != nil {
		guard = h.idempotency.Middleware(idempotencyModule)
	}

	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.With(guard).Post("/", h.Reserve)
	r.With(guard).Delete("/", h.Release)
}
