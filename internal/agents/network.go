package agents

import (
	"context"
	"fmt"

	"argus/internal/investigation"
)

// NetworkAgent analyzes the entity's network footprint: IP churn, ASN and
// country spread, proxy/VPN use, and threat-intel tool signals. It scores
// heuristically from a 0.0 accumulator rather than deferring to the evidence
// analyzer.
type NetworkAgent struct{}

func NewNetworkAgent() *NetworkAgent {
	return &NetworkAgent{}
}

func (a *NetworkAgent) Domain() string {
	return investigation.DomainNetwork
}

func (a *NetworkAgent) Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error) {
	f := investigation.NewScoringFindings(a.Domain())
	records := domainRecords(st, f)

	if n := investigation.CountDistinct(records, "ip_address"); n == nil {
		f.SetMissingMetric("unique_ip_count")
	} else {
		f.SetCountMetric("unique_ip_count", *n)
		switch {
		case *n > 10:
			f.AddRiskIndicator(fmt.Sprintf("%d distinct IP addresses in window", *n))
			f.AddScore(0.3)
		case *n > 5:
			f.AddRiskIndicator(fmt.Sprintf("%d distinct IP addresses in window", *n))
			f.AddScore(0.2)
		default:
			f.AddEvidence(fmt.Sprintf("%d distinct IP address(es) observed", *n))
		}
	}

	if n := investigation.CountDistinct(records, "ip_country"); n == nil {
		f.SetMissingMetric("unique_ip_country_count")
	} else {
		f.SetCountMetric("unique_ip_country_count", *n)
		if *n > 2 {
			f.AddRiskIndicator(fmt.Sprintf("traffic from %d countries", *n))
			f.AddScore(0.15)
		}
	}

	if n := investigation.CountDistinct(records, "asn"); n != nil {
		f.SetCountMetric("unique_asn_count", *n)
		if *n > 3 {
			f.AddEvidence(fmt.Sprintf("traffic across %d autonomous systems", *n))
			f.AddScore(0.1)
		}
	} else {
		f.SetMissingMetric("unique_asn_count")
	}

	proxied := 0
	for _, rec := range records {
		if !rec.IsNull("proxy_type") {
			proxied++
		}
	}
	if len(records) > 0 {
		f.SetCountMetric("proxied_record_count", proxied)
		if proxied > 0 {
			f.AddRiskIndicator(fmt.Sprintf("%d record(s) behind a proxy", proxied))
			f.AddScore(0.2)
		}
	}

	signals := ExtractToolSignals(st.ToolResults(), []SignalRule{
		RuleMalicious, RuleIsProxy, RuleIsVPN, RuleIsTor,
		RuleThreatScore, RuleAbuseConfidence,
	})
	if maxSignal := applySignals(f, signals); maxSignal > 0 {
		f.AddScore(0.3 * maxSignal)
	}

	f.SetAnalysis("record_count", len(records))
	f.SetConfidence(heuristicConfidence(len(records), len(signals)))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return f, nil
}

// heuristicConfidence is shared by the self-scoring agents: confidence grows
// with how much data backed the heuristics, capped at 0.9 because a heuristic
// is never as sure as a corroborated analyzer verdict.
func heuristicConfidence(recordCount, signalCount int) float64 {
	conf := 0.2 + 0.05*float64(recordCount) + 0.1*float64(signalCount)
	if conf > 0.9 {
		conf = 0.9
	}
	return conf
}
