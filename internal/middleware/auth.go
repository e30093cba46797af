package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/carebridge/server/internal/auth"
	"github.com/carebridge/server/internal/domain"
)

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
)

// UserIDFromContext returns the authenticated user id, or "" when the
// request carried no valid token.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// UserRoleFromContext returns the authenticated user's role, or "".
func UserRoleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userRoleKey).(string)
	return v
}

// OptionalAuth attaches identity to the context when a valid bearer token
// is present and otherwise lets the request through untouched. Donation
// endpoints use this: anonymous donors are a first-class path.
func OptionalAuth(manager *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := claimsFromRequest(manager, r); err == nil {
				r = r.WithContext(withIdentity(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(manager *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(manager, r)
			if err != nil {
				denyAuth(w, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

// RequireRole rejects authenticated requests whose token role does not
// match. Mount it after RequireAuth.
func RequireRole(role domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserRoleFromContext(r.Context()) != string(role) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "insufficient permissions",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFromRequest(manager *auth.TokenManager, r *http.Request) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, auth.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, auth.ErrInvalidToken
	}
	return manager.Validate(parts[1])
}

func withIdentity(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, userIDKey, claims.UserID)
	return context.WithValue(ctx, userRoleKey, claims.Role)
}

func denyAuth(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}
