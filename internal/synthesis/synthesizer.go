package synthesis

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"argus/internal/investigation"
)

const (
	// DeviceMissingPenalty is added when device telemetry was unavailable.
	// Absent telemetry is strictly riskier than telemetry confirmed clean:
	// the investigator knows less, the fraudster controlled more.
	DeviceMissingPenalty = 0.15

	// lowConfidenceFloor is the confidence below which an otherwise valid
	// verdict is flagged LOW_CONFIDENCE.
	lowConfidenceFloor = 0.3

	// domainBlendWeight and txBlendWeight mix the domain-weighted mean with
	// the volume-weighted transaction risk when both are available.
	domainBlendWeight = 0.7
	txBlendWeight     = 0.3

	// Default per-transaction risk when no vendor score exists.
	txRiskBlocked = 0.8
	txRiskDefault = 0.3
)

// Input carries everything synthesis may consult. Findings and raw facts are
// the load-bearing inputs; ToolCount only feeds the confidence completeness
// estimate and may be zero.
type Input struct {
	Findings  map[string]*investigation.Findings
	RawFacts  any
	ToolCount int
}

// Synthesizer turns N independent, partially-missing domain assessments into
// one bounded, auditable risk verdict. It is the terminal step of an
// investigation and must only run once every domain agent has completed or
// failed.
type Synthesizer struct {
	logger *slog.Logger
}

// New constructs a Synthesizer. A nil logger disables logging.
func New(logger *slog.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// Synthesize produces the final risk verdict.
//
// Order of operations: fraud floor short-circuit, confidence-and-evidence
// weighted domain mean, volume-weighted transaction blend, device-missing
// penalty, clamp, no-data fallback chain, confidence estimate, narrative.
func (s *Synthesizer) Synthesize(in Input) *Verdict {
	v := newVerdict()

	records, structured := investigation.Records(in.RawFacts)
	if !structured {
		v.AddRiskIndicator("raw facts in non-structured format; synthesis ran without transaction records")
	}

	// Deterministic fraud floor: confirmed ground truth overrides all math.
	if floor, reason, fired := fraudFloor(records); fired {
		v.MarkScored(investigation.Float64(floor), investigation.Float64(1.0))
		v.SetAnalysis("fraud_floor", reason)
		v.Narrative = fmt.Sprintf("risk %.2f: %s; deterministic floor overrides domain findings", floor, reason)
		return v
	}

	domains := scoredDomains(in.Findings)
	gate := gating(in.Findings, domains)
	v.SetAnalysis("evidence_gating", gate)
	v.SetAnalysis("contributing_domains", domainNames(domains))

	devicePenalty := 0.0
	if dev, ok := in.Findings[investigation.DomainDevice]; ok && deviceDataMissing(dev) {
		devicePenalty = DeviceMissingPenalty
		v.AddRiskIndicator("device telemetry unavailable; applying information-asymmetry penalty")
	}

	txRisk, txOK := volumeWeightedTxRisk(records)

	var score float64
	scoreKnown := false
	switch {
	case len(domains) > 0:
		score = weightedDomainMean(domains)
		if txOK {
			score = domainBlendWeight*score + txBlendWeight*txRisk
			v.SetAnalysis("tx_volume_risk", txRisk)
		}
		score += devicePenalty
		scoreKnown = true
	case txOK:
		// No usable domain scores: volume-weighted transaction risk alone.
		score = txRisk + devicePenalty
		v.SetAnalysis("tx_volume_risk", txRisk)
		v.AddEvidence("no domain produced a usable score; fell back to volume-weighted transaction risk")
		scoreKnown = true
	default:
		if vendor, ok := vendorScoreMean(records); ok {
			score = vendor
			v.AddEvidence("no domain or transaction risk available; fell back to vendor model score average")
			scoreKnown = true
		}
	}

	conf, confKnown := s.confidence(in, domains, records, structured)

	if !scoreKnown {
		v.Status = StatusInsufficientData
		v.Narrative = "insufficient data for risk calculation: no domain scores, no transaction risk, no vendor model scores"
		if confKnown {
			v.Confidence = investigation.Float64(conf)
		}
		return v
	}

	score = clamp(score)
	v.RiskScore = investigation.Float64(score)

	if !confKnown {
		v.Status = StatusInsufficientConfidenceData
		v.Narrative = fmt.Sprintf("risk %.2f computed but no confidence factor was measurable", score)
		return v
	}
	v.Confidence = investigation.Float64(conf)

	if conf < lowConfidenceFloor {
		v.Status = StatusLowConfidence
	}

	v.Narrative = narrative(score, conf, domains, gate, devicePenalty > 0)
	if s.logger != nil {
		s.logger.Info("risk synthesized",
			"score", score,
			"confidence", conf,
			"domains", len(domains),
			"gating", gate,
			"status", v.Status,
		)
	}
	return v
}

// scoredDomain pairs a domain name with its findings for weighting.
type scoredDomain struct {
	name string
	f    *investigation.Findings
}

// scoredDomains returns domains with a usable (non-nil) risk score, sorted by
// name so synthesis is deterministic. Domains that abstained contribute
// nothing: excluded, not treated as zero.
func scoredDomains(findings map[string]*investigation.Findings) []scoredDomain {
	out := make([]scoredDomain, 0, len(findings))
	for name, f := range findings {
		if name == investigation.DomainRisk || f == nil || f.RiskScore == nil {
			continue
		}
		out = append(out, scoredDomain{name: name, f: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// domainWeight scales a domain's vote by its confidence, with a bonus for
// evidence volume that itself scales with confidence: a fully confident
// domain with ten or more evidence points counts double, a hesitant one
// barely above its bare confidence.
func domainWeight(f *investigation.Findings) float64 {
	conf := 0.5 // unknown confidence gets a neutral weight
	if f.Confidence != nil {
		conf = *f.Confidence
	}
	evidenceFactor := float64(f.EvidenceCount()) / 10
	if evidenceFactor > 1 {
		evidenceFactor = 1
	}
	return conf * (1 + conf*evidenceFactor)
}

func weightedDomainMean(domains []scoredDomain) float64 {
	var weightedSum, totalWeight, plainSum float64
	for _, d := range domains {
		w := domainWeight(d.f)
		weightedSum += *d.f.RiskScore * w
		totalWeight += w
		plainSum += *d.f.RiskScore
	}
	if totalWeight == 0 {
		// All weights collapsed (zero confidence everywhere): arithmetic mean.
		return plainSum / float64(len(domains))
	}
	return weightedSum / totalWeight
}

// fraudFloor scans ground-truth columns for confirmed outcomes. These are the
// only fields domains are barred from; the synthesizer alone may read them.
func fraudFloor(records []investigation.Record) (score float64, reason string, fired bool) {
	best := 0.0
	for _, rec := range records {
		label := strings.ToLower(rec.String(investigation.FieldFraudLabel))
		switch {
		case label == "confirmed_fraud" || rec.Bool("confirmed_fraud"):
			return 1.0, "confirmed fraud transaction on record", true
		case label == "chargeback" || rec.Bool("is_chargeback"):
			if best < 0.95 {
				best, reason = 0.95, "confirmed chargeback on record"
			}
		case label == "manual_fraud" || label == "manual_fraud_determination":
			if best < 0.9 {
				best, reason = 0.9, "manual fraud determination on record"
			}
		}
	}
	return best, reason, best > 0
}

// volumeWeightedTxRisk computes sum(risk*amount)/sum(amount) over transactions
// that carry an amount plus either a vendor model score or a decision outcome.
func volumeWeightedTxRisk(records []investigation.Record) (float64, bool) {
	var weighted, volume float64
	for _, rec := range records {
		amount, ok := rec.Float("amount")
		if !ok || amount <= 0 {
			continue
		}
		risk, ok := txRisk(rec)
		if !ok {
			continue
		}
		weighted += risk * amount
		volume += amount
	}
	if volume == 0 {
		return 0, false
	}
	return weighted / volume, true
}

func txRisk(rec investigation.Record) (float64, bool) {
	if score, ok := rec.Float(investigation.FieldModelScore); ok {
		return investigation.NormalizeScore(score), true
	}
	switch strings.ToLower(rec.String("decision")) {
	case "blocked", "declined", "rejected":
		return txRiskBlocked, true
	case "":
		return 0, false
	default:
		return txRiskDefault, true
	}
}

// vendorScoreMean is the last fallback: a bare average of any vendor model
// scores present in the raw records.
func vendorScoreMean(records []investigation.Record) (float64, bool) {
	var sum float64
	var n int
	for _, rec := range records {
		if score, ok := rec.Float(investigation.FieldModelScore); ok {
			sum += investigation.NormalizeScore(score)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// deviceDataMissing prefers the structured flag and falls back to the legacy
// evidence-text match ("NULL", "not available", "missing") kept for parity
// with upstream producers that only phrase the gap in prose.
func deviceDataMissing(f *investigation.Findings) bool {
	if f.DeviceDataUnavailable {
		return true
	}
	for _, ev := range f.Evidence {
		lower := strings.ToLower(ev)
		if strings.Contains(ev, "NULL") || strings.Contains(lower, "not available") || strings.Contains(lower, "missing") {
			return true
		}
	}
	return false
}

// confidence blends the domains' own confidence (weight 0.5) with a data
// completeness estimate (weight 0.5). Returns ok=false only when no factor at
// all was measurable, which the caller surfaces as a distinct status.
func (s *Synthesizer) confidence(in Input, domains []scoredDomain, records []investigation.Record, structured bool) (float64, bool) {
	var domainConf []float64
	for _, f := range in.Findings {
		if f != nil && f.Domain != investigation.DomainRisk && f.Confidence != nil {
			domainConf = append(domainConf, *f.Confidence)
		}
	}

	var completeness []float64
	if structured {
		completeness = append(completeness, capUnit(float64(len(records))/10))
	}
	if ratio, ok := nonNullRatio(records); ok {
		completeness = append(completeness, ratio)
	}
	if in.ToolCount > 0 {
		completeness = append(completeness, capUnit(float64(in.ToolCount)/5))
	}
	if total, ok := totalEvidence(in.Findings); ok {
		completeness = append(completeness, capUnit(float64(total)/20))
	}

	a, aOK := mean(domainConf)
	b, bOK := mean(completeness)
	switch {
	case aOK && bOK:
		return 0.5*a + 0.5*b, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return 0, false
	}
}

func nonNullRatio(records []investigation.Record) (float64, bool) {
	var cells, filled int
	for _, rec := range records {
		for key := range rec {
			cells++
			if !rec.IsNull(key) {
				filled++
			}
		}
	}
	if cells == 0 {
		return 0, false
	}
	return float64(filled) / float64(cells), true
}

func totalEvidence(findings map[string]*investigation.Findings) (int, bool) {
	total := 0
	for name, f := range findings {
		if name == investigation.DomainRisk || f == nil {
			continue
		}
		total += f.EvidenceCount()
	}
	return total, total > 0
}

// gating reports whether enough independent evidence backs the verdict:
// two scored domains, or one scored domain with at least two risk signals
// across all domains. BLOCK is informational only; it never changes the score.
func gating(findings map[string]*investigation.Findings, domains []scoredDomain) string {
	if len(domains) >= 2 {
		return "PASS"
	}
	signals := 0
	for name, f := range findings {
		if name == investigation.DomainRisk || f == nil {
			continue
		}
		signals += len(f.RiskIndicators)
	}
	if len(domains) >= 1 && signals >= 2 {
		return "PASS"
	}
	return "BLOCK"
}

func narrative(score, conf float64, domains []scoredDomain, gate string, penalized bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "risk %.2f (confidence %.2f) from %d scored domain(s)", score, conf, len(domains))
	if len(domains) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(domainNames(domains), ", "))
	}
	b.WriteString("; fraud floor not triggered")
	if penalized {
		b.WriteString("; device-missing penalty applied")
	}
	fmt.Fprintf(&b, "; evidence gating %s", gate)
	return b.String()
}

func domainNames(domains []scoredDomain) []string {
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.name
	}
	return names
}

func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

func capUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
