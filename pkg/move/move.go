// Package move holds the Move value and its 32-bit wire compression, the only
// representation the parallel coordinator ever carries across a reduction.
package move

import (
	"fmt"

	"github.com/relaymesh/distchess/pkg/square"
)

// Move is a from-square/to-square pair. Each field fits in 8 bits.
type Move struct {
	Row1, Col1 int
	Row2, Col2 int
}

// None is the sentinel move, compressing to 0, meaning "no move" — checkmate,
// stalemate, or a quit signal depending on context.
var None = Move{}

// From returns the source square.
func (m Move) From() square.Position {
	return square.Position{Row: m.Row1, Col: m.Col1}
}

// To returns the destination square.
func (m Move) To() square.Position {
	return square.Position{Row: m.Row2, Col: m.Col2}
}

// IsNone reports whether m is the sentinel "no move".
func (m Move) IsNone() bool {
	return m == None
}

// Compress packs the move into a single 32-bit word: row1<<24 | col1<<16 | row2<<8 | col2.
// The compressed value 0 is reserved for None. Fields must be in [0,255].
func (m Move) Compress() int32 {
	return int32(uint32(m.Row1&0xFF)<<24 | uint32(m.Col1&0xFF)<<16 | uint32(m.Row2&0xFF)<<8 | uint32(m.Col2&0xFF))
}

// Decompress unpacks a 32-bit word produced by Compress back into a Move.
func Decompress(c int32) Move {
	u := uint32(c)
	return Move{
		Row1: int((u >> 24) & 0xFF),
		Col1: int((u >> 16) & 0xFF),
		Row2: int((u >> 8) & 0xFF),
		Col2: int(u & 0xFF),
	}
}

func (m Move) String() string {
	if m.IsNone() {
		return "(none)"
	}
	return fmt.Sprintf("%v%v", m.From(), m.To())
}
