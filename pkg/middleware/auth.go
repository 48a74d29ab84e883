package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lekhanhduy0411/tiemlen/pkg/auth"
	"github.com/lekhanhduy0411/tiemlen/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// Verifier re-checks a token's subject against the user store. It returns
// the user's current role and whether the account is valid (exists, active).
// The role from the store wins over the role baked into the token, so an
// admin demotion takes effect without waiting for token expiry.
type Verifier func(ctx context.Context, userID string) (role string, ok bool)

// Auth returns middleware that validates the bearer token and confirms the
// account with verify. On success the user ID and role are stored in the
// request context.
func Auth(verify Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, "Vui lòng đăng nhập")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w, "Token không hợp lệ")
				return
			}

			role := claims.Role
			if verify != nil {
				current, ok := verify(r.Context(), claims.UserID)
				if !ok {
					response.Unauthorized(w, "Tài khoản không hợp lệ")
					return
				}
				role = current
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
			ctx = context.WithValue(ctx, roleKey{}, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that allows access only to the given roles.
// Must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromCtx(r.Context())
			if !ok || !allowed[role] {
				response.Forbidden(w, "Bạn không có quyền truy cập")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromCtx returns the authenticated user's ID, if any.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey{}).(string)
	return role, ok && role != ""
}

// WithUser stores an authenticated identity in ctx. Exposed for tests.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey{}, userID)
	return context.WithValue(ctx, roleKey{}, role)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
