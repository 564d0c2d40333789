package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IdempotencyHeader carries the client supplied request key.
const IdempotencyHeader = "Idempotency-Key"

// IdempotencyStore persists processed keys in Redis.
type IdempotencyStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewIdempotencyStore constructs the store.
func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *IdempotencyStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl, logger: logger}
}

// ErrIdempotencyConflict indicates a duplicate key.
var ErrIdempotencyConflict = errors.New("idempotent request already processed")

func idempotencyKey(module, key string) string {
	return "idem:" + module + ":" + key
}

// CheckAndInsert ensures key uniqueness per module.
func (s *IdempotencyStore) CheckAndInsert(ctx context.Context, key, module string) error {
	if s == nil || s.rdb == nil {
		return errors.New("idempotency store not initialised")
	}
	if key == "" {
		return errors.New("idempotency key required")
	}
	if module == "" {
		return errors.New("idempotency module required")
	}
	ok, err := s.rdb.SetNX(ctx, idempotencyKey(module, key), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrIdempotencyConflict
	}
	return nil
}

// Delete removes a key, typically used to roll back failed processing.
func (s *IdempotencyStore) Delete(ctx context.Context, key, module string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if key == "" {
		return errors.New("idempotency key required")
	}
	return s.rdb.Del(ctx, idempotencyKey(module, key)).Err()
}

// Middleware rejects replays of the Idempotency-Key header within the TTL.
// Requests without the header pass through untouched. Keys of failed requests
// are released so the client can retry.
func (s *IdempotencyStore) Middleware(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || s == nil {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := uuid.Parse(key); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid idempotency key", "error": err.Error()})
				return
			}
			if err := s.CheckAndInsert(r.Context(), key, module); err != nil {
				if errors.Is(err, ErrIdempotencyConflict) {
					writeJSON(w, http.StatusConflict, map[string]string{"message": "duplicate request"})
					return
				}
				s.logger.Warn("idempotency check skipped", slog.String("module", module), slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if rec.status >= http.StatusBadRequest {
				if err := s.Delete(context.WithoutCancel(r.Context()), key, module); err != nil {
					s.logger.Warn("idempotency release", slog.String("module", module), slog.Any("error", err))
				}
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
