package agents

import (
	"fmt"
	"strings"

	"argus/internal/investigation"
)

// SignalKind distinguishes boolean flags from numeric scores in tool output.
type SignalKind int

const (
	SignalBool SignalKind = iota
	SignalScore
)

// SignalRule names one indicator field to look for inside tool payloads and
// how to read it. Domains configure a subset of the shared vocabulary instead
// of re-implementing the payload walk.
type SignalRule struct {
	Name string
	Kind SignalKind
}

// Shared indicator vocabulary across third-party tools. Numeric scores are
// normalized onto [0,1] via the three-tier scale heuristic.
var (
	RuleMalicious       = SignalRule{Name: "malicious", Kind: SignalBool}
	RuleIsBot           = SignalRule{Name: "is_bot", Kind: SignalBool}
	RuleIsProxy         = SignalRule{Name: "is_proxy", Kind: SignalBool}
	RuleIsVPN           = SignalRule{Name: "is_vpn", Kind: SignalBool}
	RuleIsTor           = SignalRule{Name: "is_tor", Kind: SignalBool}
	RuleAnomalyScore    = SignalRule{Name: "anomaly_score", Kind: SignalScore}
	RuleThreatScore     = SignalRule{Name: "threat_score", Kind: SignalScore}
	RuleTravelRisk      = SignalRule{Name: "travel_risk_score", Kind: SignalScore}
	RuleAbuseConfidence = SignalRule{Name: "abuse_confidence", Kind: SignalScore}
)

// Signal is one indicator found inside a tool's result payload.
type Signal struct {
	Tool  string
	Name  string
	Kind  SignalKind
	Flag  bool    // set for SignalBool
	Score float64 // normalized to [0,1] for SignalScore
}

const (
	maxWalkDepth = 6 // tool payloads are shallow; anything deeper is noise
	maxListItems = 5
)

// ExtractToolSignals walks every tool's result payload looking for the given
// vocabulary. The walk is duck-typed over maps and lists, with bounded
// recursion and at most maxListItems entries inspected per list.
func ExtractToolSignals(toolResults map[string]any, rules []SignalRule) []Signal {
	var signals []Signal
	for tool, payload := range toolResults {
		walkPayload(payload, 0, func(key string, value any) {
			for _, rule := range rules {
				if !strings.Contains(key, rule.Name) {
					continue
				}
				switch rule.Kind {
				case SignalBool:
					if flag, ok := value.(bool); ok && flag {
						signals = append(signals, Signal{Tool: tool, Name: rule.Name, Kind: SignalBool, Flag: true})
					}
				case SignalScore:
					if num, ok := asFloat(value); ok {
						signals = append(signals, Signal{
							Tool:  tool,
							Name:  rule.Name,
							Kind:  SignalScore,
							Score: investigation.NormalizeScore(num),
						})
					}
				}
			}
		})
	}
	return signals
}

func walkPayload(node any, depth int, visit func(key string, value any)) {
	if depth > maxWalkDepth {
		return
	}
	switch v := node.(type) {
	case map[string]any:
		for key, value := range v {
			visit(key, value)
			walkPayload(value, depth+1, visit)
		}
	case []any:
		for i, item := range v {
			if i >= maxListItems {
				break
			}
			walkPayload(item, depth+1, visit)
		}
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// applySignals folds signals into findings as evidence and risk indicators
// and returns the strongest normalized score (0 when none). Boolean flags and
// scores at or above 0.5 are flagged as risk indicators; weaker scores are
// recorded as plain evidence.
func applySignals(f *investigation.Findings, signals []Signal) float64 {
	var maxScore float64
	for _, sig := range signals {
		switch sig.Kind {
		case SignalBool:
			f.AddRiskIndicator(fmt.Sprintf("tool %s flagged %s", sig.Tool, sig.Name))
			f.SetMetric("tool_"+sig.Name, true)
			if maxScore < 1 {
				maxScore = 1
			}
		case SignalScore:
			fact := fmt.Sprintf("tool %s reported %s=%.2f", sig.Tool, sig.Name, sig.Score)
			if sig.Score >= 0.5 {
				f.AddRiskIndicator(fact)
			} else {
				f.AddEvidence(fact)
			}
			f.SetMetric("tool_"+sig.Name, sig.Score)
			if sig.Score > maxScore {
				maxScore = sig.Score
			}
		}
	}
	return maxScore
}
