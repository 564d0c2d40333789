package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/orderdesk/internal/audit"
	"github.com/odyssey-erp/orderdesk/internal/delivery"
	"github.com/odyssey-erp/orderdesk/internal/masterdata/products"
	"github.com/odyssey-erp/orderdesk/internal/observability"
	"github.com/odyssey-erp/orderdesk/internal/platform/httpx"
	"github.com/odyssey-erp/orderdesk/internal/sales/clients"
	"github.com/odyssey-erp/orderdesk/internal/sales/detailorders"
	"github.com/odyssey-erp/orderdesk/internal/sales/orders"
	"github.com/odyssey-erp/orderdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router. Nil handlers
// are not mounted.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	ProductsHandler     *products.Handler
	ClientsHandler      *clients.Handler
	OrdersHandler       *orders.Handler
	DeliveriesHandler   *delivery.Handler
	DetailOrdersHandler *detailorders.Handler
	AuditHandler        *audit.Handler
	JobHandler          *jobs.Handler
}

// NewRouter constructs the chi.Router with orderdesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(requestLogger(params.Logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusOK, "pong")
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if params.ProductsHandler != nil {
		r.Route("/products", params.ProductsHandler.MountRoutes)
	}
	if params.ClientsHandler != nil {
		r.Route("/clients", params.ClientsHandler.MountRoutes)
	}
	if params.OrdersHandler != nil {
		r.Route("/orders", params.OrdersHandler.MountRoutes)
	}
	if params.DeliveriesHandler != nil {
		r.Route("/deliveries", params.DeliveriesHandler.MountRoutes)
	}
	if params.DetailOrdersHandler != nil {
		r.Route("/detailorders", params.DetailOrdersHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
