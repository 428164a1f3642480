// Package eval implements the static position evaluator (C3): signed material
// balance plus a small mobility term. Mate/stalemate are not scored here — the
// search driver returns those terminal scores directly (§4.3).
package eval

import (
	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/movegen"
	"github.com/relaymesh/distchess/pkg/piece"
	"github.com/relaymesh/distchess/pkg/position"
)

// MobilityWeight is the fixed weight applied to the White-minus-Black mobility
// difference. A design choice carried from the original source, not a tuning
// parameter of the core.
const MobilityWeight Score = 0.01

// Evaluator is a static position evaluator.
type Evaluator interface {
	Evaluate(b *position.Board) Score
}

// Material evaluates the side-agnostic material balance plus the mobility term.
type Material struct{}

// Evaluate returns Σ signed_material + MobilityWeight·(mobility(White) − mobility(Black)).
func (Material) Evaluate(b *position.Board) Score {
	var material Score
	for r := 1; r <= 8; r++ {
		for c := 1; c <= 8; c++ {
			p := b.Get(r, c)
			if p.Kind == piece.Empty {
				continue
			}
			v := Score(p.Kind.Value())
			if p.Color == color.White {
				material += v
			} else {
				material -= v
			}
		}
	}

	mobility := Score(movegen.CountAll(b, color.White)-movegen.CountAll(b, color.Black)) * MobilityWeight
	return material + mobility
}
