package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DegreeType represents the physician's degree. It selects the board variant
// of a state requirement and the Category-1-equivalent label set.
type DegreeType string

const (
	DegreeMD DegreeType = "MD"
	DegreeDO DegreeType = "DO"
)

// Hours is a lenient CME hour value: it unmarshals from JSON numbers,
// numeric strings, and null. Anything unparseable becomes 0 — user-entered
// data never fails a request.
type Hours float64

// UnmarshalJSON implements lenient parsing for user-entered hour values
func (h *Hours) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*h = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		*h = 0
		return nil
	}
	*h = Hours(v)
	return nil
}

// MarshalJSON renders hours as a plain number
func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(h))
}

// CMEEntry is one continuing-education credit record as seen by the
// compliance engine (read-only input)
type CMEEntry struct {
	ID        string
	Title     string
	Hours     Hours
	Category  string
	Topics    []string
	Completed *time.Time
}

// TopicRequirement is one per-topic mandate inside a state requirement
type TopicRequirement struct {
	Topic         string
	RequiredHours float64
	Note          string
}

// StateRequirement is the static CME rule for a (state, degree) pair.
// TotalHours == 0 means the state has no general hour requirement and only
// topic mandates (if any) count toward compliance.
type StateRequirement struct {
	State            string
	Degree           DegreeType
	TotalHours       float64
	CycleYears       int
	Category1Minimum float64
	Topics           []TopicRequirement
}

// DefaultRequirement is the fallback rule applied when a state has no entry
// in the requirement table: 50 hours over a 2-year cycle, nothing else.
// Results computed from it carry IsDefault=true so the UI can label the
// number as an approximation rather than board policy.
func DefaultRequirement(state string, degree DegreeType) StateRequirement {
	return StateRequirement{
		State:      state,
		Degree:     degree,
		TotalHours: 50,
		CycleYears: 2,
	}
}

// TopicResult is one evaluated topic mandate
type TopicResult struct {
	Topic    string  `json:"topic"`
	Required float64 `json:"required"`
	Earned   float64 `json:"earned"`
	Met      bool    `json:"met"`
	Note     string  `json:"note,omitempty"`
}

// ComplianceResult is the outcome of evaluating a physician's CME entries
// against one state requirement. Recomputed on every call, never persisted.
type ComplianceResult struct {
	State             string        `json:"state"`
	Degree            DegreeType    `json:"degree"`
	CycleYears        int           `json:"cycle_years"`
	TotalRequired     float64       `json:"total_required"`
	TotalEarned       float64       `json:"total_earned"`
	TotalMet          bool          `json:"total_met"`
	Category1Required float64       `json:"category1_required"`
	Category1Earned   float64       `json:"category1_earned"`
	Category1Met      bool          `json:"category1_met"`
	TopicResults      []TopicResult `json:"topic_results"`
	FullyCompliant    bool          `json:"fully_compliant"`
	NoGeneralReq      bool          `json:"no_general_req"`
	IsDefault         bool          `json:"is_default"`
}

// ExpiringItem is a credential record flattened for alerting: any
// user-managed record that carries an expiration date
type ExpiringItem struct {
	Section   string    `json:"section"`
	Label     string    `json:"label"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expirable is implemented by every credential section model that can feed
// the alert scheduler
type Expirable interface {
	Section() string
	Label() string
	Expiration() *time.Time
}

// CredentialSnapshot is the full read-only input to the alert scheduler.
// Now is passed explicitly so the computation is a pure function of its
// arguments.
type CredentialSnapshot struct {
	Items            []ExpiringItem
	Entries          []CMEEntry
	TrackedStates    []string
	Degree           DegreeType
	ReminderLeadDays int
	NotifyFrequency  int
	Now              time.Time
}

// StateCMEIssues lists the human-readable compliance gaps for one state
type StateCMEIssues struct {
	State  string   `json:"state"`
	Issues []string `json:"issues"`
}

// Alert priorities
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// AlertState is the derived alert picture. A nil *AlertState means there is
// nothing to alert on — callers distinguish that from a zero-count object.
type AlertState struct {
	Expired                []ExpiringItem   `json:"expired"`
	ExpiringSoon           []ExpiringItem   `json:"expiring_soon"`
	CMEIssues              []StateCMEIssues `json:"cme_issues"`
	Count                  int              `json:"count"`
	Priority               string           `json:"priority"`
	EffectiveFrequencyDays int              `json:"effective_frequency_days"`
	Fingerprint            string           `json:"fingerprint"`
}
