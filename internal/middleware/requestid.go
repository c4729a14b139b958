package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/legisai/legisai/internal/telemetry"
)

const RequestIDHeader = "X-Request-ID"

// RequestID echoes the caller's X-Request-ID or mints one, and attaches it to
// the request context as the correlation id for the turn loop.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(telemetry.WithCorrelationID(r.Context(), id)))
	})
}
