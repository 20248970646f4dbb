package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "verify-gateway/internal/jwt_token"
)

func newGatedHandler(t *testing.T, adminEmail string) (http.Handler, *jwttoken.Service, *string) {
	t.Helper()
	tokens := jwttoken.NewService("test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seenEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenEmail = GetAdminEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return RequireAdmin(tokens, adminEmail, logger)(next), tokens, &seenEmail
}

func TestRequireAdminBearerToken(t *testing.T) {
	handler, tokens, seenEmail := newGatedHandler(t, "admin@example.com")

	token, err := tokens.Generate("admin@example.com", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin@example.com", *seenEmail)
}

func TestRequireAdminCookieToken(t *testing.T) {
	handler, tokens, seenEmail := newGatedHandler(t, "admin@example.com")

	token, err := tokens.Generate("admin@example.com", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin@example.com", *seenEmail)
}

func TestRequireAdminEmailMatchIsCaseInsensitive(t *testing.T) {
	handler, tokens, seenEmail := newGatedHandler(t, "Admin@Example.com")

	token, err := tokens.Generate("ADMIN@EXAMPLE.COM", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin@example.com", *seenEmail)
}

func TestRequireAdminNoConfiguredEmailAcceptsAnyValidToken(t *testing.T) {
	handler, tokens, seenEmail := newGatedHandler(t, "")

	token, err := tokens.Generate("someone@example.com", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "someone@example.com", *seenEmail)
}

func TestRequireAdminRejections(t *testing.T) {
	tokens := jwttoken.NewService("test-secret")
	otherSecret := jwttoken.NewService("other-secret")

	validOther, err := tokens.Generate("other@example.com", time.Now())
	require.NoError(t, err)
	expired, err := tokens.Generate("admin@example.com", time.Now().Add(-13*time.Hour))
	require.NoError(t, err)
	foreign, err := otherSecret.Generate("admin@example.com", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(*http.Request)
		wantStatus int
	}{
		{
			name:       "no token",
			setup:      func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "garbage bearer token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer garbage")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token signed with another secret",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+foreign)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token gets the same status as a missing one",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+expired)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid token for the wrong email",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validOther)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, _ := newGatedHandler(t, "admin@example.com")
			req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
