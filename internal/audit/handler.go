package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/odyssey-erp/orderdesk/internal/platform/httpx"
)

const (
	dateLayout  = "2006-01-02"
	exportLimit = 10
	exportSpan  = time.Minute
)

// TimelineService is the read contract used by Handler.
type TimelineService interface {
	Timeline(ctx context.Context, filters TimelineFilters) (Result, error)
	Export(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error)
}

// Handler serves the audit timeline.
type Handler struct {
	logger  *slog.Logger
	service TimelineService
}

func NewHandler(logger *slog.Logger, service TimelineService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the timeline and its CSV export. Exports are rate limited per IP.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.timeline)
	r.With(httprate.Limit(exportLimit, exportSpan,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Message(w, http.StatusTooManyRequests, "too many requests")
		}),
	)).Get("/export.csv", h.export)
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not load audit timeline", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit export", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not export audit timeline", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-timeline.csv"`)
	if err := writeCSV(w, rows); err != nil {
		h.logger.Warn("write audit csv", slog.Any("error", err))
	}
}

func writeCSV(w http.ResponseWriter, rows []TimelineRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"at", "action", "entity", "entity_id", "meta"}); err != nil {
		return err
	}
	for _, row := range rows {
		meta := ""
		if len(row.Meta) > 0 {
			raw, err := json.Marshal(row.Meta)
			if err != nil {
				return err
			}
			meta = string(raw)
		}
		if err := cw.Write([]string{row.At.UTC().Format(time.RFC3339), row.Action, row.Entity, row.EntityID, meta}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseFilters(r *http.Request) (TimelineFilters, error) {
	query := r.URL.Query()
	filters := TimelineFilters{
		Entity:   strings.TrimSpace(query.Get("entity")),
		EntityID: strings.TrimSpace(query.Get("entity_id")),
		Action:   strings.TrimSpace(query.Get("action")),
	}
	var err error
	if filters.From, err = parseDate(query.Get("from")); err != nil {
		return filters, fmt.Errorf("Invalid field: from must be %s", dateLayout)
	}
	if filters.To, err = parseDate(query.Get("to")); err != nil {
		return filters, fmt.Errorf("Invalid field: to must be %s", dateLayout)
	}
	if !filters.From.IsZero() && !filters.To.IsZero() && filters.From.After(filters.To) {
		return filters, fmt.Errorf("Invalid field: from must not be after to")
	}
	if filters.Page, err = parseInt(query.Get("page")); err != nil {
		return filters, fmt.Errorf("Invalid field: page")
	}
	if filters.PageSize, err = parseInt(query.Get("page_size")); err != nil {
		return filters, fmt.Errorf("Invalid field: page_size")
	}
	return filters, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

func parseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
