package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/programpal/pathfinder/internal/ctxkeys"
)

const requestIDHeader = "X-Request-ID"

// Incoming IDs are reused only when they look harmless in logs.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID tags every request with an ID, reusing a sane incoming X-Request-ID.
// The ID is echoed in the response and stored in the context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if !requestIDPattern.MatchString(id) {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := ctxkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
