package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// AdminCookieName is the cookie the login handler sets and RequireAdmin reads.
const AdminCookieName = "admin_token"

// TokenValidator validates an admin bearer token and returns the email it
// was issued for.
type TokenValidator interface {
	Validate(token string) (email string, err error)
}

type contextKeyAdminEmail struct{}

// ContextKeyAdminEmail is exported for tests that need context.WithValue.
var ContextKeyAdminEmail = contextKeyAdminEmail{}

// GetAdminEmail retrieves the authenticated admin email from the context.
func GetAdminEmail(ctx context.Context) string {
	if email, ok := ctx.Value(ContextKeyAdminEmail).(string); ok {
		return email
	}
	return ""
}

// RequireAdmin gates admin endpoints. The token comes from either an
// Authorization bearer header or the admin cookie. A missing, malformed, or
// expired token is a uniform 401; a valid token for the wrong email is 403
// when a specific admin email is configured.
func RequireAdmin(validator TokenValidator, adminEmail string, logger *slog.Logger) func(http.Handler) http.Handler {
	adminEmail = strings.ToLower(adminEmail)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := tokenFromRequest(r)
			if token == "" {
				unauthorized(w)
				return
			}

			email, err := validator.Validate(token)
			if err != nil || email == "" {
				logger.WarnContext(ctx, "admin token rejected",
					"request_id", GetRequestID(ctx),
					"error", err,
				)
				unauthorized(w)
				return
			}

			email = strings.ToLower(email)
			if adminEmail != "" && email != adminEmail {
				logger.WarnContext(ctx, "admin email mismatch",
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"not allowed"}`))
				return
			}

			ctx = context.WithValue(ctx, ContextKeyAdminEmail, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	const bearerPrefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimPrefix(auth, bearerPrefix)
	}
	if cookie, err := r.Cookie(AdminCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
}
