package shared

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewIdempotencyStore(rdb, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestCheckAndInsertRejectsReplay(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	key := uuid.NewString()

	require.NoError(t, store.CheckAndInsert(ctx, key, "detailorders"))
	assert.True(t, errors.Is(store.CheckAndInsert(ctx, key, "detailorders"), ErrIdempotencyConflict))
	require.NoError(t, store.CheckAndInsert(ctx, key, "other"))

	mr.FastForward(2 * time.Hour)
	require.NoError(t, store.CheckAndInsert(ctx, key, "detailorders"))
}

func TestCheckAndInsertRequiresKeyAndModule(t *testing.T) {
	store, _ := newTestStore(t)
	require.Error(t, store.CheckAndInsert(context.Background(), "", "detailorders"))
	require.Error(t, store.CheckAndInsert(context.Background(), uuid.NewString(), ""))

	var nilStore *IdempotencyStore
	require.Error(t, nilStore.CheckAndInsert(context.Background(), uuid.NewString(), "detailorders"))
	require.NoError(t, nilStore.Delete(context.Background(), uuid.NewString(), "detailorders"))
}

func TestMiddlewareReleasesKeyOnFailure(t *testing.T) {
	store, mr := newTestStore(t)
	status := http.StatusBadRequest
	handler := store.Middleware("detailorders")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	key := uuid.NewString()

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(IdempotencyHeader, key)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusBadRequest, send())
	assert.False(t, mr.Exists(idempotencyKey("detailorders", key)))

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, send())
	assert.True(t, mr.Exists(idempotencyKey("detailorders", key)))
	assert.Equal(t, http.StatusConflict, send())
}

func TestMiddlewarePassThrough(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	var nilStore *IdempotencyStore
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(IdempotencyHeader, uuid.NewString())
	rr := httptest.NewRecorder()
	nilStore.Middleware("detailorders")(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	store, mr := newTestStore(t)
	rr = httptest.NewRecorder()
	store.Middleware("detailorders")(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(IdempotencyHeader, "not-a-uuid")
	rr = httptest.NewRecorder()
	store.Middleware("detailorders")(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	mr.Close()
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(IdempotencyHeader, uuid.NewString())
	rr = httptest.NewRecorder()
	store.Middleware("detailorders")(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, calls)
}
