package agents

import (
	"context"
	"fmt"

	"argus/internal/investigation"
)

// DeviceAgent analyzes device telemetry. It collects evidence and defers
// scoring to the evidence analyzer; when the analyzer abstains the domain
// stays unscored. A fully NULL device column is itself a finding: the
// synthesizer penalizes investigations where device telemetry was absent.
type DeviceAgent struct {
	analyzer EvidenceAnalyzer
}

func NewDeviceAgent(analyzer EvidenceAnalyzer) *DeviceAgent {
	return &DeviceAgent{analyzer: analyzer}
}

func (a *DeviceAgent) Domain() string {
	return investigation.DomainDevice
}

func (a *DeviceAgent) Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error) {
	f := investigation.NewFindings(a.Domain())
	records := domainRecords(st, f)

	if n := investigation.CountDistinct(records, "device_id"); n == nil {
		f.SetMissingMetric("unique_device_count")
		if len(records) > 0 {
			// Legacy wording: downstream consumers match on "NULL values".
			f.AddRiskIndicator("device telemetry not available (NULL values) across records")
			f.DeviceDataUnavailable = true
		}
	} else {
		f.SetCountMetric("unique_device_count", *n)
		if *n > 3 {
			f.AddRiskIndicator(fmt.Sprintf("%d distinct devices used", *n))
		} else {
			f.AddEvidence(fmt.Sprintf("%d distinct device(s) observed", *n))
		}
	}

	if n := investigation.CountDistinct(records, "device_fingerprint"); n == nil {
		f.SetMissingMetric("unique_fingerprint_count")
	} else {
		f.SetCountMetric("unique_fingerprint_count", *n)
	}

	emulators, rooted := 0, 0
	for _, rec := range records {
		if rec.Bool("is_emulator") {
			emulators++
		}
		if rec.Bool("is_rooted") {
			rooted++
		}
	}
	if emulators > 0 {
		f.AddRiskIndicator(fmt.Sprintf("%d record(s) from an emulated device", emulators))
	}
	if rooted > 0 {
		f.AddRiskIndicator(fmt.Sprintf("%d record(s) from a rooted device", rooted))
	}

	signals := ExtractToolSignals(st.ToolResults(), []SignalRule{
		RuleMalicious, RuleAnomalyScore,
	})
	applySignals(f, signals)

	f.SetAnalysis("record_count", len(records))

	finishWithAnalyzer(ctx, a.analyzer, st, f)
	return f, ctx.Err()
}
