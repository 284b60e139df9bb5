package classifier

// Shade is the classified fill of a bar: dark bars are reported actuals,
// light bars are forward estimates.
type Shade string

const (
	ShadeDark  Shade = "dark"
	ShadeLight Shade = "light"
)

// Confidence tiers for the aggregated classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MajorityVote aggregates per-method shade calls into a final shade with a
// confidence tier. It works for any number of methods: unanimous agreement is
// high confidence, a strict majority is medium, and a tie is low with dark as
// the deterministic fallback shade. The raw vote counts are returned for
// auditability.
func MajorityVote(calls map[string]Shade) (Shade, Confidence, map[Shade]int) {
	votes := map[Shade]int{ShadeDark: 0, ShadeLight: 0}
	for _, shade := range calls {
		votes[shade]++
	}

	shade := ShadeDark
	if votes[ShadeLight] > votes[ShadeDark] {
		shade = ShadeLight
	}

	total := len(calls)
	winner := votes[shade]
	switch {
	case total > 0 && winner == total:
		return shade, ConfidenceHigh, votes
	case winner*2 > total:
		return shade, ConfidenceMedium, votes
	default:
		return shade, ConfidenceLow, votes
	}
}
