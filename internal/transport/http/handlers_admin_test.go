package httptransport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verify-gateway/internal/platform/config"
	"verify-gateway/internal/platform/middleware"
	"verify-gateway/internal/session"
	dErrors "verify-gateway/pkg/domain-errors"
	"verify-gateway/pkg/testutil"
)

func (s *testStack) login(t *testing.T) string {
	t.Helper()
	rr := testutil.DoRequest(s.handler, testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/login",
		map[string]string{"email": "admin@example.com", "password": "hunter2"}))
	require.Equal(t, http.StatusOK, rr.Code)
	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	token, _ := (*body)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAdminLogin(t *testing.T) {
	stack := newTestStack(t, config.ModeDemo)

	rr := testutil.DoRequest(stack.handler, testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/login",
		map[string]string{"email": "Admin@Example.com", "password": "hunter2"}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, true, (*body)["ok"])
	assert.NotEmpty(t, (*body)["token"])

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.AdminCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestAdminLoginErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing credentials",
			body:       map[string]string{"email": "", "password": ""},
			wantStatus: http.StatusBadRequest,
			wantCode:   string(dErrors.CodeValidation),
		},
		{
			name:       "not the configured admin",
			body:       map[string]string{"email": "intruder@example.com", "password": "hunter2"},
			wantStatus: http.StatusForbidden,
			wantCode:   string(dErrors.CodeForbidden),
		},
		{
			name:       "wrong password",
			body:       map[string]string{"email": "admin@example.com", "password": "wrong"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   string(dErrors.CodeUnauthorized),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := newTestStack(t, config.ModeDemo)
			rr := testutil.DoRequest(stack.handler, testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/login", tt.body))
			testutil.AssertStatus(t, rr, tt.wantStatus)
			testutil.AssertErrorCode(t, rr, tt.wantCode)

			assert.Empty(t, rr.Result().Cookies(), "failed login must not set a cookie")
		})
	}
}

func TestAdminLogoutClearsCookie(t *testing.T) {
	stack := newTestStack(t, config.ModeDemo)

	rr := testutil.DoRequest(stack.handler, testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/logout", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AdminCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAdminMe(t *testing.T) {
	stack := newTestStack(t, config.ModeDemo)
	token := stack.login(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.DoRequest(stack.handler, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	body := testutil.UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, "admin@example.com", (*body)["email"])
}

func TestAdminMeWithCookie(t *testing.T) {
	stack := newTestStack(t, config.ModeDemo)
	token := stack.login(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: token})
	rr := testutil.DoRequest(stack.handler, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	stack := newTestStack(t, config.ModeDemo)

	for _, path := range []string{"/api/admin/me", "/api/admin/results"} {
		rr := testutil.DoRequest(stack.handler, testutil.NewJSONRequest(t, http.MethodGet, path, nil))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	}
}

func TestAdminEndpointsRejectExpiredToken(t *testing.T) {
	stack := newTestStack(t, config.ModeDemo)

	expired, err := stack.tokens.Generate("admin@example.com", time.Now().Add(-13*time.Hour))
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/admin/results", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rr := testutil.DoRequest(stack.handler, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestAdminResults(t *testing.T) {
	stack := newTestStack(t, config.ModeDemo)

	// Seed records with explicit timestamps so the expected order is fixed.
	seed := []struct {
		id        string
		updatedAt string
	}{
		{id: "demo_1_aaaa", updatedAt: "2024-06-15T10:00:00.000Z"},
		{id: "demo_2_bbbb", updatedAt: "2024-06-15T12:00:00.000Z"},
		{id: "demo_3_cccc", updatedAt: "2024-06-15T11:00:00.000Z"},
	}
	for _, item := range seed {
		require.NoError(t, stack.store.Save(context.Background(), item.id, session.Record{
			Status:     session.StatusPending,
			Decision:   "pending",
			UpdatedAt:  item.updatedAt,
			VendorData: "person-" + item.id,
			RefCode:    "VHC-AB12CD",
		}))
	}

	token := stack.login(t)
	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/admin/results", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.DoRequest(stack.handler, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	type listing struct {
		Count int                   `json:"count"`
		Items []session.AdminResult `json:"items"`
	}
	body := testutil.UnmarshalResponse[listing](t, rr)
	require.Equal(t, 3, body.Count)
	require.Len(t, body.Items, 3)

	// Newest update first.
	assert.Equal(t, "demo_2_bbbb", body.Items[0].SessionID)
	assert.Equal(t, "demo_3_cccc", body.Items[1].SessionID)
	assert.Equal(t, "demo_1_aaaa", body.Items[2].SessionID)

	// The admin projection includes vendor data.
	assert.Equal(t, "person-demo_2_bbbb", body.Items[0].VendorData)
}
