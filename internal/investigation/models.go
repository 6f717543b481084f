package investigation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntityType identifies what kind of entity is under investigation.
type EntityType string

const (
	EntityUser     EntityType = "user"
	EntityDevice   EntityType = "device"
	EntityIP       EntityType = "ip"
	EntityEmail    EntityType = "email"
	EntityMerchant EntityType = "merchant"
)

// Valid reports whether the entity type is one of the known values.
func (t EntityType) Valid() bool {
	switch t {
	case EntityUser, EntityDevice, EntityIP, EntityEmail, EntityMerchant:
		return true
	}
	return false
}

// Record is one flattened row of raw facts about the entity.
type Record map[string]any

// Float reads a numeric field. JSON numbers decode as float64; ints from
// in-process callers are accepted too.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// String reads a text field; missing or non-string values return "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Bool reads a boolean field.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// IsNull reports whether a field is absent or carries a null-ish value.
// Upstream exports represent missing telemetry as JSON null or the literal
// strings "NULL"/"null".
func (r Record) IsNull(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr && (s == "" || s == "NULL" || s == "null") {
		return true
	}
	return false
}

// Records extracts evidence records from raw facts. Raw facts are either
// {"results": [record, ...]} or an opaque string when the upstream retrieval
// failed to structure its response. ok is false only for the non-structured
// case; an empty or absent results list is a valid zero-record answer.
func Records(raw any) (records []Record, ok bool) {
	if raw == nil {
		return nil, true
	}
	if _, isStr := raw.(string); isStr {
		return nil, false
	}
	m, isMap := raw.(map[string]any)
	if !isMap {
		return nil, false
	}
	rows, _ := m["results"].([]any)
	records = make([]Record, 0, len(rows))
	for _, row := range rows {
		if rec, isRec := row.(map[string]any); isRec {
			records = append(records, Record(rec))
		}
	}
	return records, true
}

// State is the mutable context threaded through one investigation. Entity
// identity and raw inputs are immutable once set; domain findings and failure
// counters are mutated additively under the state's lock. Each domain agent
// writes exactly one findings key, which is what makes concurrent agents safe.
type State struct {
	ID         string
	EntityID   string
	EntityType EntityType
	CreatedAt  time.Time

	rawFacts    any
	toolResults map[string]any

	mu            sync.RWMutex
	findings      map[string]*Findings
	failureCounts map[string]int
	unhealthy     map[string]struct{}

	failureThreshold int
}

// StateOption configures a new State.
type StateOption func(*State)

// WithFailureThreshold overrides the circuit breaker threshold.
func WithFailureThreshold(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.failureThreshold = n
		}
	}
}

// NewState creates the per-investigation context. rawFacts and toolResults
// are treated as read-only from this point on.
func NewState(entityID string, entityType EntityType, rawFacts any, toolResults map[string]any, opts ...StateOption) *State {
	s := &State{
		ID:               uuid.NewString(),
		EntityID:         entityID,
		EntityType:       entityType,
		CreatedAt:        time.Now(),
		rawFacts:         rawFacts,
		toolResults:      toolResults,
		findings:         make(map[string]*Findings),
		failureCounts:    make(map[string]int),
		unhealthy:        make(map[string]struct{}),
		failureThreshold: DefaultFailureThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RawFacts returns the raw evidence payload. Callers must not mutate it.
func (s *State) RawFacts() any {
	return s.rawFacts
}

// ToolResults returns third-party tool payloads keyed by tool name.
// Callers must not mutate the returned map.
func (s *State) ToolResults() map[string]any {
	return s.toolResults
}

// ToolCount returns how many tools produced results for this investigation.
func (s *State) ToolCount() int {
	return len(s.toolResults)
}

// PutFindings commits a domain's findings. Committing twice for the same
// domain violates the single-writer-per-key discipline and is rejected.
func (s *State) PutFindings(f *Findings) error {
	if f == nil || f.Domain == "" {
		return ErrInvalidFindings
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.findings[f.Domain]; exists {
		return ErrDomainAlreadyWritten
	}
	s.findings[f.Domain] = f
	return nil
}

// Findings returns one domain's committed findings. Intended for the risk
// synthesizer and the API layer; domain agents must not read each other's
// entries.
func (s *State) Findings(domain string) (*Findings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.findings[domain]
	return f, ok
}

// AllFindings returns a shallow copy of the findings map for synthesis.
func (s *State) AllFindings() map[string]*Findings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*Findings, len(s.findings))
	for k, v := range s.findings {
		out[k] = v
	}
	return out
}
