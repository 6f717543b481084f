package synthesis

import "argus/internal/investigation"

// Status is the terminal outcome of risk synthesis. Insufficient data is a
// first-class outcome, never coerced into a numeric zero.
type Status string

const (
	StatusOK                         Status = "OK"
	StatusLowConfidence              Status = "LOW_CONFIDENCE"
	StatusInsufficientData           Status = "INSUFFICIENT_DATA"
	StatusInsufficientConfidenceData Status = "INSUFFICIENT_CONFIDENCE_DATA"
	StatusError                      Status = "ERROR"
)

// Verdict is the risk synthesizer's findings-shaped output, conventionally
// stored under the "risk" key of the investigation's findings map.
type Verdict struct {
	*investigation.Findings
	Status    Status `json:"status"`
	Narrative string `json:"narrative"`
}

func newVerdict() *Verdict {
	return &Verdict{
		Findings: investigation.NewFindings(investigation.DomainRisk),
		Status:   StatusOK,
	}
}
