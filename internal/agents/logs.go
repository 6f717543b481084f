package agents

import (
	"context"
	"fmt"

	"argus/internal/investigation"
)

// LogsAgent mines application log records for error bursts and session churn.
// Defers scoring to the evidence analyzer.
type LogsAgent struct {
	analyzer EvidenceAnalyzer
}

func NewLogsAgent(analyzer EvidenceAnalyzer) *LogsAgent {
	return &LogsAgent{analyzer: analyzer}
}

func (a *LogsAgent) Domain() string {
	return investigation.DomainLogs
}

func (a *LogsAgent) Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error) {
	f := investigation.NewFindings(a.Domain())
	records := domainRecords(st, f)

	f.SetCountMetric("event_count", len(records))

	if n := investigation.CountDistinct(records, "session_id"); n == nil {
		f.SetMissingMetric("unique_session_count")
	} else {
		f.SetCountMetric("unique_session_count", *n)
	}

	errors := 0
	typed := 0
	for _, rec := range records {
		if rec.IsNull("event_type") {
			continue
		}
		typed++
		switch rec.String("event_type") {
		case "error", "failure", "denied":
			errors++
		}
	}
	if typed > 0 {
		f.SetCountMetric("error_event_count", errors)
		ratio := float64(errors) / float64(typed)
		if ratio > 0.5 {
			f.AddRiskIndicator(fmt.Sprintf("%.0f%% of typed log events are errors or denials", ratio*100))
		} else if errors > 0 {
			f.AddEvidence(fmt.Sprintf("%d error event(s) out of %d", errors, typed))
		}
	} else {
		f.SetMissingMetric("error_event_count")
	}

	signals := ExtractToolSignals(st.ToolResults(), []SignalRule{
		RuleAnomalyScore, RuleMalicious,
	})
	applySignals(f, signals)

	f.SetAnalysis("record_count", len(records))

	finishWithAnalyzer(ctx, a.analyzer, st, f)
	return f, ctx.Err()
}
