package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticationAgent(t *testing.T) {
	ctx := context.Background()
	agent := NewAuthenticationAgent()

	t.Run("failed attempts sum across records", func(t *testing.T) {
		f, err := agent.Analyze(ctx, recordState(
			map[string]any{"failed_attempts": 4.0, "auth_method": "password"},
			map[string]any{"failed_attempts": 3.0, "auth_method": "password"},
		))
		require.NoError(t, err)

		assert.Equal(t, 7, f.Metrics["failed_attempt_count"])
		require.NotEmpty(t, f.RiskIndicators)
		assert.Contains(t, f.RiskIndicators[0], "7 failed login attempts")
		require.NotNil(t, f.RiskScore)
		assert.InDelta(t, 0.3, *f.RiskScore, 1e-9)
	})

	t.Run("a few failures are evidence, not an indicator", func(t *testing.T) {
		f, err := agent.Analyze(ctx, recordState(
			map[string]any{"failed_attempts": 2.0},
		))
		require.NoError(t, err)

		assert.Empty(t, f.RiskIndicators)
		assert.Len(t, f.Evidence, 1)
		require.NotNil(t, f.RiskScore)
		assert.Equal(t, 0.0, *f.RiskScore)
	})

	t.Run("password reset churn and disabled MFA add to the score", func(t *testing.T) {
		f, err := agent.Analyze(ctx, recordState(
			map[string]any{"password_resets": 4.0, "mfa_enabled": false},
		))
		require.NoError(t, err)

		assert.Equal(t, 4, f.Metrics["password_reset_count"])
		require.NotNil(t, f.RiskScore)
		assert.InDelta(t, 0.3, *f.RiskScore, 1e-9) // 0.2 resets + 0.1 MFA
	})

	t.Run("unmeasured columns stay unknown", func(t *testing.T) {
		f, err := agent.Analyze(ctx, recordState(
			map[string]any{"auth_method": "sso"},
		))
		require.NoError(t, err)

		assert.Nil(t, f.Metrics["failed_attempt_count"])
		assert.Nil(t, f.Metrics["password_reset_count"])
		assert.Equal(t, 1, f.Metrics["unique_auth_method_count"])
	})
}
