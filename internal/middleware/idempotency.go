package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
	"github.com/josh-kwaku/risk-analyses-service/internal/handler"
	"github.com/josh-kwaku/risk-analyses-service/internal/logging"
	"github.com/josh-kwaku/risk-analyses-service/internal/repository"
)

type idempotencyStore interface {
	Get(ctx context.Context, key, accountID string) (*repository.IdempotencyEntry, error)
	Set(ctx context.Context, entry *repository.IdempotencyEntry) error
}

// Idempotency replays a cached response when the same caller repeats a
// request with the same idempotency key. Requests without a key pass through
// untouched; one is generated downstream for the provider call instead.
func Idempotency(store idempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(domain.HeaderIdempotency)
			accountID := r.Header.Get(domain.HeaderAccountID)
			if key == "" || accountID == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := logging.FromContext(r.Context())

			body, err := io.ReadAll(r.Body)
			if err != nil {
				handler.RespondError(w, domain.NewValidationError("Request body could not be read"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reqHash := computeHash(r.Method, r.URL.Path, body)

			cached, err := store.Get(r.Context(), key, accountID)
			if err != nil {
				// The store being down must not fail the request; skip replay.
				log.Error("idempotency lookup failed", "error", err, "idempotency_key", key)
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				if cached.RequestHash != reqHash {
					handler.RespondError(w, domain.NewConflictError(
						"The idempotency key was already used with a different request"))
					return
				}

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotent-Replayed", "true")
				w.WriteHeader(cached.StatusCode)
				if _, err := w.Write(cached.ResponseBody); err != nil {
					log.Error("failed to write idempotent replay", "error", err, "idempotency_key", key)
				}
				return
			}

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Only successful outcomes are replayable; failures may be retried.
			if rec.statusCode >= 300 {
				return
			}

			entry := &repository.IdempotencyEntry{
				Key:          key,
				AccountID:    accountID,
				RequestHash:  reqHash,
				StatusCode:   rec.statusCode,
				ResponseBody: rec.body.Bytes(),
				CreatedAt:    time.Now().UTC(),
			}
			if err := store.Set(r.Context(), entry); err != nil {
				log.Error("idempotency store failed", "error", err, "idempotency_key", key)
			}
		})
	}
}

func computeHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return fmt.Sprintf("%x", h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
