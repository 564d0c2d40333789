package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	rows []TimelineRow
	last WindowQuery
	err  error
}

func (s *stubRepo) Window(ctx context.Context, q WindowQuery) ([]TimelineRow, error) {
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	rows := s.rows
	if q.Offset < len(rows) {
		rows = rows[q.Offset:]
	} else {
		rows = nil
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func sampleRows(n int) []TimelineRow {
	rows := make([]TimelineRow, n)
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = TimelineRow{
			At:       base.Add(-time.Duration(i) * time.Hour),
			Action:   "detailorder:reserve",
			Entity:   "detail_order",
			EntityID: "1:2",
			Meta:     map[string]any{"count": float64(i)},
		}
	}
	return rows
}

func TestTimelinePaging(t *testing.T) {
	repo := &stubRepo{rows: sampleRows(5)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, PagingInfo{Page: 1, PageSize: 2, HasNext: true, NextPage: 2}, result.Paging)
	assert.Equal(t, 3, repo.last.Limit)
	assert.Equal(t, 0, repo.last.Offset)

	result, err = svc.Timeline(context.Background(), TimelineFilters{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.False(t, result.Paging.HasNext)
	assert.Equal(t, 2, result.Paging.PrevPage)
	assert.Equal(t, 4, repo.last.Offset)
}

func TestTimelineClampsPageSize(t *testing.T) {
	repo := &stubRepo{}
	result, err := NewService(repo).Timeline(context.Background(), TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, result.Paging.PageSize)
	assert.Equal(t, maxPageSize+1, repo.last.Limit)
	assert.NotNil(t, result.Rows)

	result, err = NewService(repo).Timeline(context.Background(), TimelineFilters{})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, result.Paging.PageSize)
	assert.Equal(t, 1, result.Paging.Page)
}

func TestWindowQueryFilters(t *testing.T) {
	q := windowQuery(TimelineFilters{
		From:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Entity: " detail_order ",
	})
	assert.True(t, q.From.Valid)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), q.Before.Time)
	assert.Equal(t, "detail_order", q.Entity.String)
	assert.False(t, q.Action.Valid)
	assert.False(t, q.EntityID.Valid)
}

func TestExportReturnsEveryRow(t *testing.T) {
	repo := &stubRepo{rows: sampleRows(3)}
	rows, err := NewService(repo).Export(context.Background(), TimelineFilters{Action: "detailorder:release"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Zero(t, repo.last.Limit)
	assert.Equal(t, "detailorder:release", repo.last.Action.String)
}

func newTestRouter(repo Repository) http.Handler {
	r := chi.NewRouter()
	r.Route("/audit", NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo)).MountRoutes)
	return r
}

func TestHandlerTimeline(t *testing.T) {
	router := newTestRouter(&stubRepo{rows: sampleRows(3)})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit?page_size=2&entity=detail_order", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Len(t, result.Rows, 2)
	assert.True(t, result.Paging.HasNext)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit?from=2026-03-10&to=2026-03-01", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerTimelineStoreFailure(t *testing.T) {
	router := newTestRouter(&stubRepo{err: errors.New("connection refused")})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandlerExportCSV(t *testing.T) {
	router := newTestRouter(&stubRepo{rows: sampleRows(2)})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/audit/export.csv", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))

	records, err := csv.NewReader(strings.NewReader(rr.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"at", "action", "entity", "entity_id", "meta"}, records[0])
	assert.Equal(t, "2026-03-10T10:00:00Z", records[1][0])
	assert.Equal(t, `{"count":0}`, records[1][4])
}
