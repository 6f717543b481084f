package agents

import (
	"context"
	"fmt"
	"math"
	"time"

	"argus/internal/investigation"
)

// LocationAgent analyzes geospatial behavior: country spread and impossible
// travel between consecutive records. Self-scoring.
type LocationAgent struct{}

func NewLocationAgent() *LocationAgent {
	return &LocationAgent{}
}

func (a *LocationAgent) Domain() string {
	return investigation.DomainLocation
}

// maxPlausibleSpeedKmh is the travel-speed ceiling between consecutive
// observations; commercial flight speed with margin.
const maxPlausibleSpeedKmh = 900.0

func (a *LocationAgent) Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error) {
	f := investigation.NewScoringFindings(a.Domain())
	records := domainRecords(st, f)

	if n := investigation.CountDistinct(records, "country"); n == nil {
		f.SetMissingMetric("unique_country_count")
	} else {
		f.SetCountMetric("unique_country_count", *n)
		if *n > 2 {
			f.AddRiskIndicator(fmt.Sprintf("activity from %d countries", *n))
			f.AddScore(0.25)
		} else {
			f.AddEvidence(fmt.Sprintf("activity from %d country(ies)", *n))
		}
	}

	if n := investigation.CountDistinct(records, "city"); n == nil {
		f.SetMissingMetric("unique_city_count")
	} else {
		f.SetCountMetric("unique_city_count", *n)
	}

	if hops := impossibleTravelHops(records); hops > 0 {
		f.AddRiskIndicator(fmt.Sprintf("%d impossible-travel hop(s) exceeding %.0f km/h", hops, maxPlausibleSpeedKmh))
		f.SetCountMetric("impossible_travel_hops", hops)
		f.AddScore(0.4)
	}

	signals := ExtractToolSignals(st.ToolResults(), []SignalRule{
		RuleTravelRisk, RuleAnomalyScore,
	})
	if maxSignal := applySignals(f, signals); maxSignal > 0 {
		f.AddScore(0.3 * maxSignal)
	}

	f.SetAnalysis("record_count", len(records))
	f.SetConfidence(heuristicConfidence(len(records), len(signals)))
	return f, ctx.Err()
}

// impossibleTravelHops counts consecutive record pairs whose implied speed
// between coordinates exceeds the plausible ceiling. Records without both
// coordinates and a parseable event_time are skipped.
func impossibleTravelHops(records []investigation.Record) int {
	type fix struct {
		lat, lon float64
		at       time.Time
	}
	var fixes []fix
	for _, rec := range records {
		lat, latOK := rec.Float("geo_lat")
		lon, lonOK := rec.Float("geo_lon")
		if !latOK || !lonOK {
			continue
		}
		at, err := time.Parse(time.RFC3339, rec.String("event_time"))
		if err != nil {
			continue
		}
		fixes = append(fixes, fix{lat: lat, lon: lon, at: at})
	}

	hops := 0
	for i := 1; i < len(fixes); i++ {
		dt := fixes[i].at.Sub(fixes[i-1].at).Hours()
		if dt <= 0 {
			dt = -dt
		}
		if dt == 0 {
			continue
		}
		km := haversineKm(fixes[i-1].lat, fixes[i-1].lon, fixes[i].lat, fixes[i].lon)
		if km/dt > maxPlausibleSpeedKmh {
			hops++
		}
	}
	return hops
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
