package investigation

import (
	"errors"
	"fmt"
	"reflect"

	"argus/pkg/platform/sentinel"
)

var (
	// ErrInvalidFindings flags a findings object with no domain identity.
	ErrInvalidFindings = errors.New("findings missing domain")

	// ErrDomainAlreadyWritten flags a second write to the same findings key.
	// It matches sentinel.ErrConflict so callers can translate it uniformly.
	ErrDomainAlreadyWritten = fmt.Errorf("%w: domain findings already written", sentinel.ErrConflict)
)

// Phase tags the findings lifecycle. While Collecting, heuristics may adjust
// the risk score. Once Scored (the evidence analyzer has spoken), only
// evidence-append mutations are allowed; the score is frozen.
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseScored     Phase = "scored"
)

// Findings is the output contract of one domain agent for one investigation.
// It is created and exclusively owned by its agent and becomes read-only once
// committed to the investigation state.
//
// Metrics distinguish unknown from zero: a count whose source column was
// entirely absent or NULL is stored as an explicit nil entry, never as 0.
type Findings struct {
	Domain         string         `json:"domain"`
	Evidence       []string       `json:"evidence"`
	RiskIndicators []string       `json:"risk_indicators"`
	Metrics        map[string]any `json:"metrics"`
	Analysis       map[string]any `json:"analysis"`
	RiskScore      *float64       `json:"risk_score"`
	Confidence     *float64       `json:"confidence"`

	// DeviceDataUnavailable is the structured form of the "device telemetry
	// was NULL" signal the synthesizer penalizes. Only the device agent sets
	// it; the legacy evidence-text match remains as a fallback trigger.
	DeviceDataUnavailable bool `json:"device_data_unavailable,omitempty"`

	phase Phase
}

// NewFindings builds an empty findings accumulator for a domain that defers
// scoring to the evidence analyzer: the score stays nil until the analyzer
// produces one.
func NewFindings(domain string) *Findings {
	return &Findings{
		Domain:         domain,
		Evidence:       []string{},
		RiskIndicators: []string{},
		Metrics:        make(map[string]any),
		Analysis:       make(map[string]any),
		phase:          PhaseCollecting,
	}
}

// NewScoringFindings builds findings for a domain that computes a heuristic
// score itself, starting from an explicit 0.0 accumulator.
func NewScoringFindings(domain string) *Findings {
	f := NewFindings(domain)
	zero := 0.0
	f.RiskScore = &zero
	return f
}

// Phase returns the current lifecycle phase.
func (f *Findings) Phase() Phase {
	return f.phase
}

// AddEvidence appends a human-readable fact. Order is preserved; callers rely
// on "first N" style reporting.
func (f *Findings) AddEvidence(fact string) {
	f.Evidence = append(f.Evidence, fact)
}

// AddRiskIndicator appends a suspicious fact. Indicators are a subset of the
// evidence, so the fact is recorded in both sequences.
func (f *Findings) AddRiskIndicator(fact string) {
	f.Evidence = append(f.Evidence, fact)
	f.RiskIndicators = append(f.RiskIndicators, fact)
}

// SetMetric records an arbitrary measured value.
func (f *Findings) SetMetric(key string, value any) {
	f.Metrics[key] = value
}

// SetCountMetric records a measured count. Zero is a true count of zero.
func (f *Findings) SetCountMetric(key string, n int) {
	f.Metrics[key] = n
}

// SetMissingMetric records that a metric could not be measured because the
// underlying column was absent or entirely NULL. This is distinct from zero.
func (f *Findings) SetMissingMetric(key string) {
	f.Metrics[key] = nil
}

// SetAnalysis records free-form structured detail. Synthesis math ignores it.
func (f *Findings) SetAnalysis(key string, value any) {
	f.Analysis[key] = value
}

// AddScore shifts the heuristic risk score while still Collecting. Once the
// analyzer has scored the findings, heuristic adjustments are ignored.
func (f *Findings) AddScore(delta float64) {
	if f.phase != PhaseCollecting || f.RiskScore == nil {
		return
	}
	v := clampUnit(*f.RiskScore + delta)
	f.RiskScore = &v
}

// SetScore replaces the heuristic score while still Collecting.
func (f *Findings) SetScore(score float64) {
	if f.phase != PhaseCollecting {
		return
	}
	v := clampUnit(score)
	f.RiskScore = &v
}

// MarkScored adopts the evidence analyzer's score and confidence and freezes
// the score. A nil score is kept as nil: "could not produce a defensible
// score" must never silently become 0.
func (f *Findings) MarkScored(score, confidence *float64) {
	if score != nil {
		v := clampUnit(*score)
		score = &v
	}
	if confidence != nil {
		v := clampUnit(*confidence)
		confidence = &v
	}
	f.RiskScore = score
	f.Confidence = confidence
	f.phase = PhaseScored
}

// SetConfidence records heuristic confidence while still Collecting.
func (f *Findings) SetConfidence(confidence float64) {
	if f.phase != PhaseCollecting {
		return
	}
	v := clampUnit(confidence)
	f.Confidence = &v
}

// EvidenceCount returns how many evidence facts were collected.
func (f *Findings) EvidenceCount() int {
	return len(f.Evidence)
}

// CountDistinct counts distinct non-null scalar values of one column across
// records. It returns nil when the column was absent or NULL in every record:
// that count could not be measured, which is not the same as measuring zero.
// A record where the column is present but holds an empty collection, or a
// non-scalar value such as a nested JSON object, marks the column as measured
// without contributing values, so a true zero remains representable.
func CountDistinct(records []Record, column string) *int {
	measured := false
	seen := make(map[any]struct{})
	for _, rec := range records {
		v, present := rec[column]
		if !present || rec.IsNull(column) {
			continue
		}
		measured = true
		switch vv := v.(type) {
		case []any:
			for _, item := range vv {
				if item != nil && countable(item) {
					seen[item] = struct{}{}
				}
			}
		default:
			if countable(v) {
				seen[v] = struct{}{}
			}
		}
	}
	if !measured {
		return nil
	}
	n := len(seen)
	return &n
}

// countable reports whether a record value can serve as a distinctness key.
// Decoded JSON nests objects and arrays inside columns; those are not hashable
// and keying the seen set on one would panic.
func countable(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Comparable()
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Float64 returns a pointer to v; shorthand for building optional scores.
func Float64(v float64) *float64 {
	return &v
}
