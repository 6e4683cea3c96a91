package services

// Performer bands for the derived total motivation score.
const (
	BandAdaptive = "Adaptive"
	BandBalanced = "Balanced"
	BandTactical = "Tactical"
)

// ClassifyTomo maps a total motivation score to its performer band.
// Exactly zero is Tactical, not Balanced.
func ClassifyTomo(tomo int) string {
	switch {
	case tomo > 9:
		return BandAdaptive
	case tomo > 0:
		return BandBalanced
	default:
		return BandTactical
	}
}
