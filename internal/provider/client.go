// Package provider talks to the external verification provider. The wire
// shape follows the Veriff station API: session creation posts a callback
// URL, a person identifier, and vendor correlation data, and gets back a
// hosted-flow URL plus the provider's session id.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	dErrors "verify-gateway/pkg/domain-errors"
)

// CreateSessionRequest is the gateway-side view of a session creation call.
type CreateSessionRequest struct {
	CallbackURL string
	PersonID    string
	VendorData  string
	Timestamp   time.Time
}

// CreateSessionResult carries the provider-assigned session id and the URL
// the end user is redirected to.
type CreateSessionResult struct {
	ID  string
	URL string
}

// Client creates verification sessions with the external provider.
type Client interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResult, error)
}

type createSessionPayload struct {
	Verification verificationPayload `json:"verification"`
}

type verificationPayload struct {
	Callback   string        `json:"callback"`
	Person     personPayload `json:"person"`
	VendorData string        `json:"vendorData"`
	Timestamp  string        `json:"timestamp"`
}

type personPayload struct {
	ID string `json:"id"`
}

type createSessionResponse struct {
	Verification struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"verification"`
}

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// CreateSession calls the provider's session creation endpoint. Any non-2xx
// status, undecodable body, or response missing the session id or redirect
// URL is a provider error; no partial result is returned.
func (c *HTTPClient) CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResult, error) {
	payload := createSessionPayload{
		Verification: verificationPayload{
			Callback:   req.CallbackURL,
			Person:     personPayload{ID: req.PersonID},
			VendorData: req.VendorData,
			Timestamp:  req.Timestamp.UTC().Format(time.RFC3339),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return CreateSessionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode provider request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return CreateSessionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build provider request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-AUTH-CLIENT", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return CreateSessionResult{}, dErrors.Wrap(err, dErrors.CodeProvider, "provider session creation failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.WarnContext(ctx, "provider rejected session creation",
			"status", resp.StatusCode,
			"body", string(detail),
		)
		return CreateSessionResult{}, dErrors.New(dErrors.CodeProvider, "provider session creation failed")
	}

	var decoded createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return CreateSessionResult{}, dErrors.Wrap(err, dErrors.CodeProvider, "invalid provider response")
	}
	if decoded.Verification.ID == "" || decoded.Verification.URL == "" {
		return CreateSessionResult{}, dErrors.New(dErrors.CodeProvider, "invalid provider response")
	}

	return CreateSessionResult{ID: decoded.Verification.ID, URL: decoded.Verification.URL}, nil
}
