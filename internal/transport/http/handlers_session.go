package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verify-gateway/internal/platform/middleware"
	"verify-gateway/internal/session"
	"verify-gateway/internal/transport/http/shared"
	dErrors "verify-gateway/pkg/domain-errors"
)

// SessionService is the lifecycle surface the session handler needs.
type SessionService interface {
	Create(ctx context.Context, personID string) (*session.CreateResult, error)
	ApplyProviderDecision(ctx context.Context, sessionID, decision string, dob *string) error
	ApplyDemoDecision(ctx context.Context, sessionID, decision string, dob *string) error
	Result(ctx context.Context, sessionID string) (*session.PublicResult, error)
}

// SessionHandler serves session creation, decision callbacks, and the public
// result lookup.
type SessionHandler struct {
	sessions SessionService
	logger   *slog.Logger
}

func NewSessionHandler(sessions SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Register mounts the session routes on r.
func (h *SessionHandler) Register(r chi.Router) {
	r.Post("/create-session", h.handleCreate)
	r.Post("/provider/webhook", h.handleWebhook)
	r.Post("/provider/demo-submit", h.handleDemoSubmit)
	r.Get("/result/{sessionID}", h.handleResult)
}

type createSessionRequest struct {
	PersonID string `json:"personId"`
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// An empty body means an anonymous creation; only syntactically broken
	// JSON is rejected.
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.sessions.Create(ctx, req.PersonID)
	if err != nil {
		h.logger.ErrorContext(ctx, "session creation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}

// webhookRequest is the provider-shaped decision payload.
type webhookRequest struct {
	Verification struct {
		ID       string `json:"id"`
		Decision string `json:"decision"`
		Person   struct {
			DateOfBirth *string `json:"dateOfBirth"`
		} `json:"person"`
	} `json:"verification"`
}

// handleWebhook receives asynchronous provider decisions. Provider-specific
// signature verification is the caller's collaborator contract and is not
// performed here; the body is trusted as-is. The response is a best-effort
// plain 200 "ok" for anything except a malformed body, so the provider never
// retries a webhook for an unknown or stale session.
func (h *SessionHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "malformed webhook body",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("error"))
		return
	}

	dob := req.Verification.Person.DateOfBirth
	if dob != nil && *dob == "" {
		dob = nil
	}

	if err := h.sessions.ApplyProviderDecision(ctx, req.Verification.ID, req.Verification.Decision, dob); err != nil {
		h.logger.ErrorContext(ctx, "webhook processing failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("error"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type demoSubmitRequest struct {
	SessionID string  `json:"sessionId"`
	Decision  string  `json:"decision"`
	DOB       *string `json:"dob"`
}

func (h *SessionHandler) handleDemoSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req demoSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.SessionID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "bad session"))
		return
	}

	dob := req.DOB
	if dob != nil && *dob == "" {
		dob = nil
	}

	if err := h.sessions.ApplyDemoDecision(ctx, req.SessionID, req.Decision, dob); err != nil {
		// Demo submissions come from the session owner, so an unknown id is
		// the client's mistake, not a lookup miss.
		if dErrors.Is(err, dErrors.CodeNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "bad session"))
			return
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *SessionHandler) handleResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessions.Result(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}
