package agents

import (
	"context"

	"argus/internal/investigation"
)

// Agent is the shared contract of every domain analyzer. Analyze reads the
// investigation's raw facts and tool results and produces one findings object
// for its domain. Agents never write to the state directly: the orchestrator
// commits the returned findings after the pollution gate, so a failed or
// cancelled agent leaves no half-written entry behind.
type Agent interface {
	Domain() string
	Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error)
}

// All returns the full set of domain agents in a stable order. The analyzer
// handle is passed explicitly rather than read from a global registry.
func All(analyzer EvidenceAnalyzer) []Agent {
	return []Agent{
		NewNetworkAgent(),
		NewDeviceAgent(analyzer),
		NewLocationAgent(),
		NewLogsAgent(analyzer),
		NewAuthenticationAgent(),
		NewMerchantAgent(),
		NewWebAgent(analyzer),
	}
}

// domainRecords extracts and whitelists the evidence records one domain may
// see. When raw facts arrived as a bare string (malformed upstream response),
// the gap itself is recorded as a risk indicator and the agent proceeds with
// zero records instead of crashing.
func domainRecords(st *investigation.State, f *investigation.Findings) []investigation.Record {
	records, structured := investigation.Records(st.RawFacts())
	if !structured {
		f.AddRiskIndicator("raw evidence returned in non-structured format; proceeding without records")
		return nil
	}
	filtered := make([]investigation.Record, len(records))
	for i, rec := range records {
		filtered[i] = investigation.FilterDomainFields(f.Domain, rec)
	}
	return filtered
}
