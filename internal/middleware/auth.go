package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/programpal/pathfinder/internal/ctxkeys"
	"github.com/programpal/pathfinder/internal/model"
	"github.com/programpal/pathfinder/internal/service"
)

// TokenResolver maps a bearer token to a user. *service.AuthService implements it.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// AuthMiddleware resolves the bearer token, if any, and adds the user to the context.
// Requests without a valid token continue anonymously; RequireAuth rejects them.
// A resolver failure that is not about the token itself ends the request with 500.
func AuthMiddleware(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthenticated) {
					slog.Error("failed to resolve bearer token", "error", err, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
