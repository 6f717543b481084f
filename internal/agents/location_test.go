package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/investigation"
)

func TestLocationAgent(t *testing.T) {
	ctx := context.Background()
	agent := NewLocationAgent()

	state := func(rows ...map[string]any) *investigation.State {
		list := make([]any, len(rows))
		for i, r := range rows {
			list[i] = r
		}
		return investigation.NewState("user-1", investigation.EntityUser,
			map[string]any{"results": list}, nil)
	}

	t.Run("transatlantic hop within an hour is impossible travel", func(t *testing.T) {
		f, err := agent.Analyze(ctx, state(
			map[string]any{"geo_lat": 40.7, "geo_lon": -74.0, "country": "US", "event_time": "2024-05-01T10:00:00Z"},
			map[string]any{"geo_lat": 51.5, "geo_lon": -0.1, "country": "GB", "event_time": "2024-05-01T11:00:00Z"},
		))
		require.NoError(t, err)

		assert.Equal(t, 1, f.Metrics["impossible_travel_hops"])
		require.NotNil(t, f.RiskScore)
		assert.InDelta(t, 0.4, *f.RiskScore, 1e-9)
		require.NotEmpty(t, f.RiskIndicators)
		assert.Contains(t, f.RiskIndicators[0], "impossible-travel")
	})

	t.Run("plausible travel raises nothing", func(t *testing.T) {
		f, err := agent.Analyze(ctx, state(
			map[string]any{"geo_lat": 40.7, "geo_lon": -74.0, "country": "US", "event_time": "2024-05-01T10:00:00Z"},
			map[string]any{"geo_lat": 40.8, "geo_lon": -74.1, "country": "US", "event_time": "2024-05-01T11:00:00Z"},
		))
		require.NoError(t, err)

		assert.NotContains(t, f.Metrics, "impossible_travel_hops")
		require.NotNil(t, f.RiskScore)
		assert.Equal(t, 0.0, *f.RiskScore)
	})

	t.Run("records without coordinates or timestamps are skipped", func(t *testing.T) {
		f, err := agent.Analyze(ctx, state(
			map[string]any{"geo_lat": 40.7, "geo_lon": -74.0, "country": "US", "event_time": "not a timestamp"},
			map[string]any{"country": "US", "event_time": "2024-05-01T11:00:00Z"},
		))
		require.NoError(t, err)
		require.NotNil(t, f.RiskScore)
		assert.Equal(t, 0.0, *f.RiskScore)
	})

	t.Run("country spread above two raises an indicator", func(t *testing.T) {
		f, err := agent.Analyze(ctx, state(
			map[string]any{"country": "US"},
			map[string]any{"country": "GB"},
			map[string]any{"country": "NG"},
		))
		require.NoError(t, err)

		assert.Equal(t, 3, f.Metrics["unique_country_count"])
		require.NotNil(t, f.RiskScore)
		assert.InDelta(t, 0.25, *f.RiskScore, 1e-9)
	})
}
