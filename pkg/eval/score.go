package eval

import (
	"fmt"
	"math"
)

// Score is a signed static evaluation, positive favors White. Mate scores are
// encoded by the search driver (never by Evaluate) as ±(1000+remainingDepth), so
// they always sit well outside any realistic material/mobility balance.
type Score float64

const (
	// MateBase is added to the remaining depth to produce a mate score; chosen
	// high enough that no material/mobility balance can be mistaken for it.
	MateBase Score = 1000
)

var (
	// PosInf/NegInf are the sentinels used to seed the root alpha, per §9's
	// "inverted" initialization: +inf for White's root call, -inf for Black's.
	PosInf Score = Score(math.Inf(1))
	NegInf Score = Score(math.Inf(-1))
)

// MateIn returns the signed mate score for the side that delivers mate, with
// remainingDepth plies left in the search — the bonus that drives the engine to
// prefer the fastest mate and the slowest loss.
func MateIn(winner int, remainingDepth int) Score {
	// winner: +1 White mates, -1 Black mates.
	return Score(winner) * (MateBase + Score(remainingDepth))
}

func (s Score) String() string {
	switch {
	case math.IsInf(float64(s), 1):
		return "+inf"
	case math.IsInf(float64(s), -1):
		return "-inf"
	default:
		return fmt.Sprintf("%.2f", float64(s))
	}
}
