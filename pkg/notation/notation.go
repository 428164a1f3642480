// Package notation parses the simplified algebraic notation the terminal
// protocol reads from the human operator (§6): `[piece]<file><rank>`, 2 or 3
// characters, an absent piece letter implying a pawn. It does not resolve
// ambiguity between multiple legal moves sharing a destination — that menu
// is external, driven by pkg/engine/console against the candidates this
// package returns.
package notation

import (
	"fmt"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/movegen"
	"github.com/relaymesh/distchess/pkg/piece"
	"github.com/relaymesh/distchess/pkg/position"
	"github.com/relaymesh/distchess/pkg/square"
)

// Candidates returns every legal move by side that lands on the destination
// square encoded in input, restricted to the moving piece kind input names
// (pawn if no piece letter is given). An empty, unparseable, or
// out-of-range input yields a nil slice and a non-nil error. The terminal
// callers treat an empty line as the quit signal before calling Candidates,
// and report any other error and prompt again.
func Candidates(b *position.Board, side color.Color, input string) ([]move.Move, error) {
	kind, dest, err := parse(input)
	if err != nil {
		return nil, err
	}

	var out []move.Move
	for _, c := range movegen.GenerateAll(b, side) {
		to := c.Move.To()
		if to != dest {
			continue
		}
		if b.Get(c.Move.Row1, c.Move.Col1).Kind != kind {
			continue
		}
		out = append(out, c.Move)
	}
	return out, nil
}

func parse(input string) (piece.Kind, square.Position, error) {
	if len(input) < 2 || len(input) > 3 {
		return 0, square.Position{}, fmt.Errorf("notation: %q must be 2 or 3 characters", input)
	}

	kind := piece.Pawn
	rest := input
	if len(input) == 3 {
		k, ok := pieceLetter(input[0])
		if !ok {
			return 0, square.Position{}, fmt.Errorf("notation: unrecognized piece letter %q", input[0])
		}
		kind = k
		rest = input[1:]
	}

	dest, err := square.Parse(rest)
	if err != nil {
		return 0, square.Position{}, fmt.Errorf("notation: %q: %w", input, err)
	}
	return kind, dest, nil
}

func pieceLetter(c byte) (piece.Kind, bool) {
	switch c {
	case 'R', 'r':
		return piece.Rook, true
	case 'N', 'n':
		return piece.Knight, true
	case 'B', 'b':
		return piece.Bishop, true
	case 'Q', 'q':
		return piece.Queen, true
	case 'K', 'k':
		return piece.King, true
	default:
		return 0, false
	}
}
