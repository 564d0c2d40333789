package products

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo))
	r := chi.NewRouter()
	r.Route("/products", handler.MountRoutes)
	return r, repo
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var decoded map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	return rr, decoded
}

func TestHandlerCreateThenShow(t *testing.T) {
	h, _ := newTestRouter(t)

	rr, body := do(t, h, http.MethodPost, "/products", `{"name":"Pen","description":"blue","price":1.25,"availability":10}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", body["message"])
	assert.EqualValues(t, 1, body["id"])

	rr, body = do(t, h, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Pen", body["name"])
	assert.EqualValues(t, 1.25, body["price"])
	assert.EqualValues(t, 10, body["availability"])
}

func TestHandlerCreateMissingField(t *testing.T) {
	h, repo := newTestRouter(t)

	rr, body := do(t, h, http.MethodPost, "/products", `{"name":"Pen","description":"blue","price":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No saved", body["message"])
	assert.Equal(t, "Missing field: availability", body["error"])
	assert.Empty(t, repo.products)
}

func TestHandlerShowNotFoundAndInvalidID(t *testing.T) {
	h, _ := newTestRouter(t)

	rr, body := do(t, h, http.MethodGet, "/products/9", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found", body["message"])

	rr, body = do(t, h, http.MethodGet, "/products/abc", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid id", body["message"])
}

func TestHandlerUpdate(t *testing.T) {
	h, repo := newTestRouter(t)
	do(t, h, http.MethodPost, "/products", `{"name":"Pen","description":"blue","price":1,"availability":10}`)

	rr, body := do(t, h, http.MethodPut, "/products/1", `{"name":"Marker"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Product updated successfully", body["message"])
	assert.Equal(t, "Marker", repo.products[1].Name)
	assert.Equal(t, 10, repo.products[1].Availability)

	rr, _ = do(t, h, http.MethodPut, "/products/7", `{"name":"Marker"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerDeleteSetsAvailability(t *testing.T) {
	h, repo := newTestRouter(t)
	do(t, h, http.MethodPost, "/products", `{"name":"Pen","description":"blue","price":1,"availability":10}`)

	rr, body := do(t, h, http.MethodDelete, "/products/1", `{}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing field: availability", body["error"])

	rr, body = do(t, h, http.MethodDelete, "/products/1", `{"availability":0}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Product update successfully", body["message"])
	assert.Equal(t, 0, repo.products[1].Availability)
}

func TestHandlerMalformedBody(t *testing.T) {
	h, _ := newTestRouter(t)
	rr, body := do(t, h, http.MethodPut, "/products/1", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Update failed", body["message"])
}
