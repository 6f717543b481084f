package investigation

// NormalizeScore maps a numeric indicator of unknown scale onto [0,1].
// Vendors disagree on score ranges, so a three-tier heuristic is applied:
// values above 10 are read as a 0-100 scale, values in (1,10] as a 0-10
// scale, and anything else as already unit-scaled.
func NormalizeScore(v float64) float64 {
	switch {
	case v > 10:
		return clampUnit(v / 100)
	case v > 1:
		return clampUnit(v / 10)
	default:
		return clampUnit(v)
	}
}
