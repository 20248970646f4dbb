package session

import (
	"time"
)

// Status of a verification session. A record starts pending and moves to
// passed or failed when a decision arrives.
type Status string

const (
	StatusPending Status = "pending"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// TimeLayout is ISO-8601 with fixed millisecond precision in UTC. Fixed width
// keeps lexicographic comparison of UpdatedAt consistent with time order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is one verification session. DOB and Age stay nil until a decision
// callback supplies them; VendorData correlates the session back to the
// requester and never leaves the admin surface.
type Record struct {
	Status     Status
	Decision   string
	DOB        *string
	Age        *int
	UpdatedAt  string
	VendorData string
	RefCode    string
}

// DecisionUpdate is a decision callback distilled to what the record needs.
// Nil DOB/Age mean "not supplied", not "clear".
type DecisionUpdate struct {
	Decision string
	Passed   bool
	DOB      *string
	Age      *int
}

// Apply merges a decision into the record. Fields absent from the update
// retain their prior value; UpdatedAt always moves forward.
func (r *Record) Apply(update DecisionUpdate, now time.Time) {
	if update.Passed {
		r.Status = StatusPassed
	} else {
		r.Status = StatusFailed
	}
	r.Decision = update.Decision
	if update.DOB != nil {
		r.DOB = update.DOB
	}
	if update.Age != nil {
		r.Age = update.Age
	}
	r.UpdatedAt = now.UTC().Format(TimeLayout)
}

// PublicResult is the projection exposed to unauthenticated result lookups.
type PublicResult struct {
	Status    Status  `json:"status"`
	Decision  string  `json:"decision"`
	Age       *int    `json:"age"`
	DOB       *string `json:"dob"`
	UpdatedAt string  `json:"updatedAt"`
	RefCode   string  `json:"refCode"`
}

// AdminResult additionally carries the session id and vendor data.
type AdminResult struct {
	SessionID  string  `json:"sessionId"`
	Status     Status  `json:"status"`
	Decision   string  `json:"decision"`
	Age        *int    `json:"age"`
	DOB        *string `json:"dob"`
	UpdatedAt  string  `json:"updatedAt"`
	VendorData string  `json:"vendorData"`
	RefCode    string  `json:"refCode"`
}

func publicProjection(r Record) *PublicResult {
	return &PublicResult{
		Status:    r.Status,
		Decision:  r.Decision,
		Age:       r.Age,
		DOB:       r.DOB,
		UpdatedAt: r.UpdatedAt,
		RefCode:   r.RefCode,
	}
}

func adminProjection(id string, r Record) AdminResult {
	return AdminResult{
		SessionID:  id,
		Status:     r.Status,
		Decision:   r.Decision,
		Age:        r.Age,
		DOB:        r.DOB,
		UpdatedAt:  r.UpdatedAt,
		VendorData: r.VendorData,
		RefCode:    r.RefCode,
	}
}

// calcAge derives a whole-year age from an ISO YYYY-MM-DD date of birth.
// Malformed or empty input yields nil rather than an error.
func calcAge(dob string, now time.Time) *int {
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return &age
}
