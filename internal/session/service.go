package session

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"verify-gateway/internal/platform/config"
	"verify-gateway/internal/platform/metrics"
	"verify-gateway/internal/provider"
	dErrors "verify-gateway/pkg/domain-errors"
	"verify-gateway/pkg/platform/sentinel"
)

// defaultPersonID mirrors the fallback used when a caller omits personId.
const defaultPersonID = "discord_user"

// maxPersonIDLen bounds what we accept as a correlation id.
const maxPersonIDLen = 80

// providerPassTokens are the provider decision values that count as a pass;
// every other non-empty decision is a fail.
var providerPassTokens = map[string]bool{
	"approved": true,
	"accept":   true,
}

// CreateResult is what session creation hands back to the client.
type CreateResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	Mode      string `json:"mode"`
	RefCode   string `json:"refCode"`
}

// Service is the session lifecycle manager: it creates sessions (demo or
// provider-backed), applies decision updates, and serves read projections.
type Service struct {
	store    Store
	provider provider.Client
	mode     string
	baseURL  string
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	store Store,
	providerClient provider.Client,
	mode string,
	publicBaseURL string,
	logger *slog.Logger,
	m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		provider: providerClient,
		mode:     mode,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Create starts a verification session for personID. In provider mode the
// external provider assigns the session id and hosted-flow URL; a provider
// failure leaves no record behind. In demo mode the id is generated locally
// and the URL points at the bundled demo completion page.
func (s *Service) Create(ctx context.Context, personID string) (*CreateResult, error) {
	personID = strings.TrimSpace(personID)
	if personID == "" {
		personID = defaultPersonID
	}
	if len(personID) > maxPersonIDLen {
		personID = personID[:maxPersonIDLen]
	}

	now := s.now()
	refCode := newRefCode()
	record := Record{
		Status:     StatusPending,
		Decision:   "pending",
		UpdatedAt:  now.UTC().Format(TimeLayout),
		VendorData: personID,
		RefCode:    refCode,
	}

	if s.mode == config.ModeVeriff {
		created, err := s.provider.CreateSession(ctx, provider.CreateSessionRequest{
			CallbackURL: s.baseURL + "/api/provider/webhook",
			PersonID:    personID,
			VendorData:  personID + "|" + refCode,
			Timestamp:   now,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "provider session creation failed", "error", err.Error())
			return nil, err
		}

		// The webhook will reference the provider's id, so the record is
		// keyed by it.
		if err := s.store.Save(ctx, created.ID, record); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session")
		}

		s.metrics.SessionsCreated.WithLabelValues(config.ModeVeriff).Inc()
		s.logger.InfoContext(ctx, "verification session created",
			"session_id", created.ID,
			"mode", config.ModeVeriff,
			"ref_code", refCode,
		)
		return &CreateResult{SessionID: created.ID, URL: created.URL, Mode: config.ModeVeriff, RefCode: refCode}, nil
	}

	sessionID := newSessionID("demo", now)
	if err := s.store.Save(ctx, sessionID, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session")
	}

	query := url.Values{}
	query.Set("sessionId", sessionID)
	query.Set("ref", refCode)
	demoURL := s.baseURL + "/provider-demo.html?" + query.Encode()

	s.metrics.SessionsCreated.WithLabelValues(config.ModeDemo).Inc()
	s.logger.InfoContext(ctx, "verification session created",
		"session_id", sessionID,
		"mode", config.ModeDemo,
		"ref_code", refCode,
	)
	return &CreateResult{SessionID: sessionID, URL: demoURL, Mode: config.ModeDemo, RefCode: refCode}, nil
}

// ApplyProviderDecision merges a provider webhook decision into the session.
// An unknown or missing session id is absorbed silently: telling the provider
// to retry a webhook for a stale session only causes retry storms.
func (s *Service) ApplyProviderDecision(ctx context.Context, sessionID, decision string, dob *string) error {
	s.metrics.WebhooksReceived.Inc()

	if decision == "" {
		decision = "unknown"
	}
	update := DecisionUpdate{
		Decision: decision,
		Passed:   providerPassTokens[decision],
		DOB:      dob,
	}
	if dob != nil {
		update.Age = calcAge(*dob, s.now())
	}

	if sessionID == "" {
		s.logger.WarnContext(ctx, "webhook without session id absorbed")
		return nil
	}

	now := s.now()
	err := s.store.Update(ctx, sessionID, func(r *Record) {
		r.Apply(update, now)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "webhook for unknown session absorbed", "session_id", sessionID)
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply decision")
	}

	s.metrics.Decisions.WithLabelValues(statusLabel(update.Passed)).Inc()
	s.logger.InfoContext(ctx, "provider decision applied",
		"session_id", sessionID,
		"decision", decision,
	)
	return nil
}

// ApplyDemoDecision merges a decision submitted by the demo completion page.
// Unlike the provider path this requires the session to exist: the submission
// comes straight from the session owner, so an unknown id is a client error.
// The stored decision is normalized to approved or rejected.
func (s *Service) ApplyDemoDecision(ctx context.Context, sessionID, decision string, dob *string) error {
	passed := decision == "approved"
	update := DecisionUpdate{
		Decision: "rejected",
		Passed:   passed,
		DOB:      dob,
	}
	if passed {
		update.Decision = "approved"
	}
	if dob != nil {
		update.Age = calcAge(*dob, s.now())
	}

	now := s.now()
	err := s.store.Update(ctx, sessionID, func(r *Record) {
		r.Apply(update, now)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "unknown session")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply decision")
	}

	s.metrics.Decisions.WithLabelValues(statusLabel(passed)).Inc()
	s.logger.InfoContext(ctx, "demo decision applied",
		"session_id", sessionID,
		"decision", update.Decision,
	)
	return nil
}

// Result returns the limited public projection for one session.
func (s *Service) Result(ctx context.Context, sessionID string) (*PublicResult, error) {
	record, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return publicProjection(record), nil
}

// AdminResults returns every session including vendor data, newest update
// first. Lexicographic comparison is safe because UpdatedAt is always
// generated in the fixed-width TimeLayout.
func (s *Service) AdminResults(ctx context.Context) ([]AdminResult, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}

	results := make([]AdminResult, 0, len(records))
	for id, record := range records {
		results = append(results, adminProjection(id, record))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].UpdatedAt > results[j].UpdatedAt
	})
	return results, nil
}

func statusLabel(passed bool) string {
	if passed {
		return string(StatusPassed)
	}
	return string(StatusFailed)
}
