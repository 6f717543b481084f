package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
const botUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

func TestWebAgent(t *testing.T) {
	ctx := context.Background()
	agent := NewWebAgent(NoopAnalyzer{})

	t.Run("bot user agents raise an indicator", func(t *testing.T) {
		f, err := agent.Analyze(ctx, recordState(
			map[string]any{"user_agent": botUA},
			map[string]any{"user_agent": chromeUA},
		))
		require.NoError(t, err)

		assert.Equal(t, 1, f.Metrics["bot_record_count"])
		assert.Equal(t, 1, f.Metrics["unique_browser_count"])
		require.NotEmpty(t, f.RiskIndicators)
		assert.Contains(t, f.RiskIndicators[0], "bot user agent")
	})

	t.Run("user agent churn above three raises an indicator", func(t *testing.T) {
		f, err := agent.Analyze(ctx, recordState(
			map[string]any{"user_agent": "ua-1"},
			map[string]any{"user_agent": "ua-2"},
			map[string]any{"user_agent": "ua-3"},
			map[string]any{"user_agent": "ua-4"},
		))
		require.NoError(t, err)

		assert.Equal(t, 4, f.Metrics["unique_user_agent_count"])
		require.NotEmpty(t, f.RiskIndicators)
		assert.Contains(t, f.RiskIndicators[0], "distinct user agents")
	})

	t.Run("absent user agents leave the counts unknown", func(t *testing.T) {
		f, err := agent.Analyze(ctx, recordState(
			map[string]any{"referrer": "https://example.com"},
		))
		require.NoError(t, err)

		assert.Nil(t, f.Metrics["unique_user_agent_count"])
		assert.Equal(t, 1, f.Metrics["unique_referrer_count"])
		assert.Nil(t, f.RiskScore)
	})
}
