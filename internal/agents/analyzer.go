package agents

import (
	"context"

	"argus/internal/investigation"
)

// AnalyzeRequest carries everything the evidence analyzer sees for one domain.
type AnalyzeRequest struct {
	Domain      string                   `json:"domain"`
	Findings    *investigation.Findings  `json:"findings"`
	RawFacts    any                      `json:"raw_facts"`
	ToolResults map[string]any           `json:"tool_results"`
	EntityType  investigation.EntityType `json:"entity_type"`
	EntityID    string                   `json:"entity_id"`
}

// EvidenceAnalyzer converts accumulated evidence into a risk score and
// confidence for one domain. It is an external collaborator (LLM-backed in
// production) consumed through this interface only, and is called at most once
// per domain per investigation. Its score and confidence take precedence over
// any heuristic score already on the findings.
type EvidenceAnalyzer interface {
	AnalyzeEvidence(ctx context.Context, req AnalyzeRequest) (*investigation.Findings, error)
}

// NoopAnalyzer abstains from scoring: domains that defer to the analyzer keep
// a nil risk score, which synthesis excludes rather than reading as zero.
// Used when no analyzer endpoint is configured, and as a test double.
type NoopAnalyzer struct{}

func (NoopAnalyzer) AnalyzeEvidence(_ context.Context, req AnalyzeRequest) (*investigation.Findings, error) {
	return req.Findings, nil
}

// finishWithAnalyzer runs the analyzer for a deferring domain and adopts its
// verdict. On analyzer failure the findings stay unscored; the domain still
// reports its evidence rather than failing the whole agent.
func finishWithAnalyzer(ctx context.Context, analyzer EvidenceAnalyzer, st *investigation.State, f *investigation.Findings) {
	if analyzer == nil {
		return
	}
	res, err := analyzer.AnalyzeEvidence(ctx, AnalyzeRequest{
		Domain:      f.Domain,
		Findings:    f,
		RawFacts:    st.RawFacts(),
		ToolResults: st.ToolResults(),
		EntityType:  st.EntityType,
		EntityID:    st.EntityID,
	})
	if err != nil || res == nil {
		f.AddEvidence("evidence analyzer unavailable; domain left unscored")
		return
	}
	if res.RiskScore != nil || res.Confidence != nil {
		f.MarkScored(res.RiskScore, res.Confidence)
	}
}
