// Package piece holds the piece-kind enumeration and the (kind, color, square) value
// returned by a board lookup.
package piece

import "github.com/relaymesh/distchess/pkg/color"

// Kind identifies a chess piece without color.
type Kind uint8

const (
	Empty Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

// Value is the nominal material value used by the evaluator. King is 0: mate is
// encoded separately by the search, never folded into material balance.
func (k Kind) Value() float64 {
	switch k {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "empty"
	}
}

// Symbol returns the single-character board-file symbol for the piece, uppercase for
// White and lowercase for Black, matching the §6 input-file format.
func Symbol(c color.Color, k Kind) byte {
	var r byte
	switch k {
	case Pawn:
		r = 'p'
	case Rook:
		r = 'r'
	case Knight:
		r = 'n'
	case Bishop:
		r = 'b'
	case Queen:
		r = 'q'
	case King:
		r = 'k'
	default:
		return ' '
	}
	if c == color.White {
		return r - ('a' - 'A')
	}
	return r
}

// FromSymbol parses a single board-file character into a (color, kind) pair. A space
// parses as (color.None, Empty).
func FromSymbol(r byte) (color.Color, Kind, bool) {
	switch r {
	case ' ':
		return color.None, Empty, true
	case 'P':
		return color.White, Pawn, true
	case 'p':
		return color.Black, Pawn, true
	case 'R':
		return color.White, Rook, true
	case 'r':
		return color.Black, Rook, true
	case 'N':
		return color.White, Knight, true
	case 'n':
		return color.Black, Knight, true
	case 'B':
		return color.White, Bishop, true
	case 'b':
		return color.Black, Bishop, true
	case 'Q':
		return color.White, Queen, true
	case 'q':
		return color.Black, Queen, true
	case 'K':
		return color.White, King, true
	case 'k':
		return color.Black, King, true
	default:
		return color.None, Empty, false
	}
}

// Piece is a (kind, color, square) value as returned by a board lookup. Invalid
// distinguishes an off-board lookup from a genuinely empty square.
type Piece struct {
	Kind    Kind
	Color   color.Color
	Row     int
	Col     int
	Invalid bool
}

// IsEmpty reports whether the square holds no piece (but is on the board).
func (p Piece) IsEmpty() bool {
	return !p.Invalid && p.Kind == Empty
}

func (p Piece) String() string {
	if p.Invalid {
		return "<invalid>"
	}
	if p.Kind == Empty {
		return "."
	}
	return string(Symbol(p.Color, p.Kind))
}
