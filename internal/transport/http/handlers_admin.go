package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verify-gateway/internal/admin"
	"verify-gateway/internal/platform/middleware"
	"verify-gateway/internal/session"
	"verify-gateway/internal/transport/http/shared"
	dErrors "verify-gateway/pkg/domain-errors"
)

// AdminService authenticates the dashboard login.
type AdminService interface {
	Login(ctx context.Context, email, password string) (*admin.LoginResult, error)
}

// AdminLister serves the authenticated listing of every session.
type AdminLister interface {
	AdminResults(ctx context.Context) ([]session.AdminResult, error)
}

// AdminHandler serves the dashboard auth endpoints and the admin listing.
type AdminHandler struct {
	admin        AdminService
	sessions     AdminLister
	requireAdmin func(http.Handler) http.Handler
	logger       *slog.Logger
}

func NewAdminHandler(
	adminService AdminService,
	sessions AdminLister,
	requireAdmin func(http.Handler) http.Handler,
	logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:        adminService,
		sessions:     sessions,
		requireAdmin: requireAdmin,
		logger:       logger,
	}
}

// Register mounts the admin routes on r. Login and logout stay public; the
// read endpoints sit behind the admin gate.
func (h *AdminHandler) Register(r chi.Router) {
	r.Post("/admin/login", h.handleLogin)
	r.Post("/admin/logout", h.handleLogout)
	r.Group(func(gated chi.Router) {
		gated.Use(h.requireAdmin)
		gated.Get("/admin/me", h.handleMe)
		gated.Get("/admin/results", h.handleResults)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.admin.Login(ctx, req.Email, req.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// The token doubles as an HTTP-only cookie so the dashboard works
	// without client-side token handling.
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"token": result.Token,
	})
}

func (h *AdminHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AdminHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetAdminEmail(r.Context())
	if email == "" {
		// Unreachable when the gate is mounted; guards against miswiring.
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"email": email})
}

func (h *AdminHandler) handleResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.sessions.AdminResults(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "admin listing failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}
