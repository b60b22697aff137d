package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/risk-analyses-service/internal/domain"
)

type requestIDKey struct{}

// Tracing ensures every request carries a request id, taking the gateway's
// when present and minting one otherwise.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(domain.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set(domain.HeaderRequestID, requestID)
		}

		w.Header().Set(domain.HeaderRequestID, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
