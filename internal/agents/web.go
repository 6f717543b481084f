package agents

import (
	"context"
	"fmt"

	"github.com/mssola/useragent"

	"argus/internal/investigation"
)

// WebAgent analyzes browsing behavior, mainly user-agent strings. Defers
// scoring to the evidence analyzer.
type WebAgent struct {
	analyzer EvidenceAnalyzer
}

func NewWebAgent(analyzer EvidenceAnalyzer) *WebAgent {
	return &WebAgent{analyzer: analyzer}
}

func (a *WebAgent) Domain() string {
	return investigation.DomainWeb
}

func (a *WebAgent) Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error) {
	f := investigation.NewFindings(a.Domain())
	records := domainRecords(st, f)

	if n := investigation.CountDistinct(records, "user_agent"); n == nil {
		f.SetMissingMetric("unique_user_agent_count")
	} else {
		f.SetCountMetric("unique_user_agent_count", *n)
		if *n > 3 {
			f.AddRiskIndicator(fmt.Sprintf("%d distinct user agents in window", *n))
		}
	}

	bots := 0
	browsers := make(map[string]struct{})
	for _, rec := range records {
		raw := rec.String("user_agent")
		if raw == "" {
			continue
		}
		ua := useragent.New(raw)
		if ua.Bot() {
			bots++
			continue
		}
		name, _ := ua.Browser()
		if name != "" {
			browsers[name] = struct{}{}
		}
	}
	if bots > 0 {
		f.AddRiskIndicator(fmt.Sprintf("%d record(s) from a known bot user agent", bots))
		f.SetCountMetric("bot_record_count", bots)
	}
	if len(browsers) > 0 {
		f.SetCountMetric("unique_browser_count", len(browsers))
	}

	if n := investigation.CountDistinct(records, "referrer"); n == nil {
		f.SetMissingMetric("unique_referrer_count")
	} else {
		f.SetCountMetric("unique_referrer_count", *n)
	}

	signals := ExtractToolSignals(st.ToolResults(), []SignalRule{
		RuleIsBot, RuleMalicious,
	})
	applySignals(f, signals)

	f.SetAnalysis("record_count", len(records))

	finishWithAnalyzer(ctx, a.analyzer, st, f)
	return f, ctx.Err()
}
