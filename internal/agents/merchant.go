package agents

import (
	"context"
	"fmt"
	"strings"

	"argus/internal/investigation"
)

// MerchantAgent analyzes spending patterns: amount spikes, risky merchant
// categories, and decline ratios. Self-scoring.
type MerchantAgent struct{}

func NewMerchantAgent() *MerchantAgent {
	return &MerchantAgent{}
}

func (a *MerchantAgent) Domain() string {
	return investigation.DomainMerchant
}

// riskyCategories are merchant categories with elevated fraud rates.
var riskyCategories = map[string]struct{}{
	"gambling":   {},
	"crypto":     {},
	"gift_cards": {},
	"wire":       {},
}

func (a *MerchantAgent) Analyze(ctx context.Context, st *investigation.State) (*investigation.Findings, error) {
	f := investigation.NewScoringFindings(a.Domain())
	records := domainRecords(st, f)

	var total, maxAmount float64
	amounts := 0
	declined := 0
	decided := 0
	risky := 0
	for _, rec := range records {
		if amount, ok := rec.Float("amount"); ok {
			total += amount
			amounts++
			if amount > maxAmount {
				maxAmount = amount
			}
		}
		switch strings.ToLower(rec.String("decision")) {
		case "blocked", "declined", "rejected":
			declined++
			decided++
		case "":
		default:
			decided++
		}
		if _, isRisky := riskyCategories[strings.ToLower(rec.String("merchant_category"))]; isRisky {
			risky++
		}
	}

	if amounts > 0 {
		avg := total / float64(amounts)
		f.SetMetric("total_amount", total)
		f.SetMetric("avg_amount", avg)
		if avg > 0 && maxAmount > 10*avg {
			f.AddRiskIndicator(fmt.Sprintf("transaction of %.2f is over 10x the %.2f average", maxAmount, avg))
			f.AddScore(0.2)
		}
	} else {
		f.SetMissingMetric("total_amount")
		f.SetMissingMetric("avg_amount")
	}

	if decided > 0 {
		f.SetCountMetric("declined_count", declined)
		if ratio := float64(declined) / float64(decided); ratio > 0.3 {
			f.AddRiskIndicator(fmt.Sprintf("%.0f%% of decided transactions were declined or blocked", ratio*100))
			f.AddScore(0.3)
		}
	} else {
		f.SetMissingMetric("declined_count")
	}

	if risky > 0 {
		f.AddRiskIndicator(fmt.Sprintf("%d transaction(s) in high-risk merchant categories", risky))
		f.SetCountMetric("risky_category_count", risky)
		f.AddScore(0.3)
	}

	if n := investigation.CountDistinct(records, "merchant_id"); n == nil {
		f.SetMissingMetric("unique_merchant_count")
	} else {
		f.SetCountMetric("unique_merchant_count", *n)
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
