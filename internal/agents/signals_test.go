package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/investigation"
)

func TestExtractToolSignals(t *testing.T) {
	rules := []SignalRule{RuleMalicious, RuleThreatScore}

	t.Run("boolean flags picked up only when true", func(t *testing.T) {
		tools := map[string]any{
			"virustotal": map[string]any{"malicious": true},
			"ipinfo":     map[string]any{"malicious": false},
		}
		signals := ExtractToolSignals(tools, rules)
		require.Len(t, signals, 1)
		assert.Equal(t, "virustotal", signals[0].Tool)
		assert.True(t, signals[0].Flag)
	})

	t.Run("numeric scores normalized onto the unit interval", func(t *testing.T) {
		tools := map[string]any{
			"abuseipdb": map[string]any{"threat_score": 85.0},
		}
		signals := ExtractToolSignals(tools, rules)
		require.Len(t, signals, 1)
		assert.InDelta(t, 0.85, signals[0].Score, 1e-9)
	})

	t.Run("substring key matching catches prefixed fields", func(t *testing.T) {
		tools := map[string]any{
			"vendor": map[string]any{"overall_threat_score": 0.4},
		}
		signals := ExtractToolSignals(tools, rules)
		require.Len(t, signals, 1)
		assert.InDelta(t, 0.4, signals[0].Score, 1e-9)
	})

	t.Run("nested payloads walked to the depth cap", func(t *testing.T) {
		shallow := map[string]any{
			"data": map[string]any{"attributes": map[string]any{"malicious": true}},
		}
		assert.Len(t, ExtractToolSignals(map[string]any{"tool": shallow}, rules), 1)

		deep := map[string]any{"malicious": true}
		var node any = deep
		for range maxWalkDepth + 2 {
			node = map[string]any{"nested": node}
		}
		assert.Empty(t, ExtractToolSignals(map[string]any{"tool": node}, rules),
			"payloads nested past the cap are ignored as noise")
	})

	t.Run("lists inspected up to the item cap", func(t *testing.T) {
		items := make([]any, 8)
		for i := range items {
			items[i] = map[string]any{"malicious": true}
		}
		tools := map[string]any{"tool": map[string]any{"hits": items}}
		assert.Len(t, ExtractToolSignals(tools, rules), maxListItems)
	})

	t.Run("no tools yields no signals", func(t *testing.T) {
		assert.Empty(t, ExtractToolSignals(nil, rules))
	})
}

func TestApplySignals(t *testing.T) {
	t.Run("boolean flag is a risk indicator and maximal score", func(t *testing.T) {
		f := investigation.NewScoringFindings(investigation.DomainNetwork)
		max := applySignals(f, []Signal{{Tool: "vt", Name: "malicious", Kind: SignalBool, Flag: true}})

		assert.Equal(t, 1.0, max)
		require.Len(t, f.RiskIndicators, 1)
		assert.Equal(t, true, f.Metrics["tool_malicious"])
	})

	t.Run("weak scores stay plain evidence", func(t *testing.T) {
		f := investigation.NewScoringFindings(investigation.DomainNetwork)
		max := applySignals(f, []Signal{{Tool: "abuse", Name: "threat_score", Kind: SignalScore, Score: 0.3}})

		assert.InDelta(t, 0.3, max, 1e-9)
		assert.Empty(t, f.RiskIndicators)
		assert.Len(t, f.Evidence, 1)
	})

	t.Run("strong scores become risk indicators", func(t *testing.T) {
		f := investigation.NewScoringFindings(investigation.DomainNetwork)
		applySignals(f, []Signal{{Tool: "abuse", Name: "threat_score", Kind: SignalScore, Score: 0.6}})
		assert.Len(t, f.RiskIndicators, 1)
	})

	t.Run("strongest of several signals wins", func(t *testing.T) {
		f := investigation.NewScoringFindings(investigation.DomainNetwork)
		max := applySignals(f, []Signal{
			{Tool: "a", Name: "threat_score", Kind: SignalScore, Score: 0.2},
			{Tool: "b", Name: "anomaly_score", Kind: SignalScore, Score: 0.7},
		})
		assert.InDelta(t, 0.7, max, 1e-9)
	})
}
