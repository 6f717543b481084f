package agents

import (
	"context"
	"fmt"

	"argus/internal/investigation"
)

// AuthenticationAgent analyzes login behavior: failed attempts, MFA posture,
// and password-reset churn. Self-scoring.
type AuthenticationAgent struct{}

func NewAuthenticationAgent() *AuthenticationAgent {
	return &AuthenticationAgent{}
}

func (a *AuthenticationAgent) Domain() string {
	return investigation.DomainAuthentication
}

func (a *AuthenticationAgent) Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error) {
	f := investigation.NewScoringFindings(a.Domain())
	records := domainRecords(st, f)

	failedMeasured := false
	failed := 0
	resets := 0
	resetsMeasured := false
	mfaDisabled := 0
	for _, rec := range records {
		if v, ok := rec.Float("failed_attempts"); ok {
			failed += int(v)
			failedMeasured = true
		}
		if v, ok := rec.Float("password_resets"); ok {
			resets += int(v)
			resetsMeasured = true
		}
		if v, present := rec["mfa_enabled"]; present {
			if enabled, isBool := v.(bool); isBool && !enabled {
				mfaDisabled++
			}
		}
	}

	if failedMeasured {
		f.SetCountMetric("failed_attempt_count", failed)
		if failed > 5 {
			f.AddRiskIndicator(fmt.Sprintf("%d failed login attempts in window", failed))
			f.AddScore(0.3)
		} else if failed > 0 {
			f.AddEvidence(fmt.Sprintf("%d failed login attempt(s) in window", failed))
		}
	} else {
		f.SetMissingMetric("failed_attempt_count")
	}

	if resetsMeasured {
		f.SetCountMetric("password_reset_count", resets)
		if resets > 3 {
			f.AddRiskIndicator(fmt.Sprintf("%d password resets in window", resets))
			f.AddScore(0.2)
		}
	} else {
		f.SetMissingMetric("password_reset_count")
	}

	if mfaDisabled > 0 {
		f.AddEvidence(fmt.Sprintf("MFA disabled on %d record(s)", mfaDisabled))
		f.AddScore(0.1)
	}

	if n := investigation.CountDistinct(records, "auth_method"); n == nil {
		f.SetMissingMetric("unique_auth_method_count")
	} else {
		f.SetCountMetric("unique_auth_method_count", *n)
	}

	signals := ExtractToolSignals(st.ToolResults(), []SignalRule{
		RuleMalicious, RuleAnomalyScore,
	})
	if maxSignal := applySignals(f, signals); maxSignal > 0 {
		f.AddScore(0.3 * maxSignal)
	}

	f.SetAnalysis("record_count", len(records))
	f.SetConfidence(heuristicConfidence(len(records), len(signals)))
	return f, ctx.Err()
}
