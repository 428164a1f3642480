// Package position implements the replicated chess-position state machine (C1):
// an 8x8 grid plus castling rights, en-passant files and a king-position cache,
// with apply/undo as the only mutation path.
package position

import (
	"fmt"
	"strings"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/piece"
	"github.com/relaymesh/distchess/pkg/square"
)

// Board is the central aggregate of the engine: the grid, cached king squares,
// castling rights and en-passant files. It has no pointers or slices, so a plain
// value copy is a full, independent snapshot — the basis for Apply/Undo.
type Board struct {
	grid [8][8]piece.Piece

	whiteKingPos square.Position
	blackKingPos square.Position

	whiteCanCastleKingside  bool
	whiteCanCastleQueenside bool
	blackCanCastleKingside  bool
	blackCanCastleQueenside bool

	// whiteEnPassantFile/blackEnPassantFile hold the file of an opponent pawn that
	// just double-pushed, i.e. the file *our* pawn may capture onto the square
	// behind, or 0 if no such capture is currently legal for this side.
	whiteEnPassantFile int
	blackEnPassantFile int
}

// NewStarting returns a Board set up for the canonical starting position.
func NewStarting() *Board {
	b := &Board{}
	back := [8]piece.Kind{piece.Rook, piece.Knight, piece.Bishop, piece.Queen, piece.King, piece.Bishop, piece.Knight, piece.Rook}
	for c := 1; c <= 8; c++ {
		b.Set(1, c, piece.Piece{Kind: back[c-1], Color: color.White})
		b.Set(2, c, piece.Piece{Kind: piece.Pawn, Color: color.White})
		b.Set(7, c, piece.Piece{Kind: piece.Pawn, Color: color.Black})
		b.Set(8, c, piece.Piece{Kind: back[c-1], Color: color.Black})
		for r := 3; r <= 6; r++ {
			b.Set(r, c, piece.Piece{})
		}
	}
	b.whiteCanCastleKingside = true
	b.whiteCanCastleQueenside = true
	b.blackCanCastleKingside = true
	b.blackCanCastleQueenside = true
	return b
}

// NewFromRows builds a Board from exactly 8 rows, ranks 8 down to 1 from White's
// perspective (row[0] is rank 8), each exactly 8 characters wide, matching the §6
// input-file format. Castling rights default to available wherever a king and its
// corresponding corner rook are still on their starting squares; there is no
// separate rights notation in this file format.
func NewFromRows(rows [8]string) (*Board, error) {
	b := &Board{}
	for i, line := range rows {
		if len(line) != 8 {
			return nil, fmt.Errorf("board row %d must be 8 characters, got %q", i+1, line)
		}
		r := 8 - i
		for j := 0; j < 8; j++ {
			c := j + 1
			col, kind, ok := piece.FromSymbol(line[j])
			if !ok {
				return nil, fmt.Errorf("invalid piece symbol %q at row %d col %d", line[j], r, c)
			}
			b.Set(r, c, piece.Piece{Kind: kind, Color: col})
		}
	}
	b.whiteCanCastleKingside = startingRook(b, 1, 8, color.White)
	b.whiteCanCastleQueenside = startingRook(b, 1, 1, color.White)
	b.blackCanCastleKingside = startingRook(b, 8, 8, color.Black)
	b.blackCanCastleQueenside = startingRook(b, 8, 1, color.Black)
	return b, nil
}

func startingRook(b *Board, r, c int, col color.Color) bool {
	king := b.Get(r, 5)
	rook := b.Get(r, c)
	return king.Kind == piece.King && king.Color == col && rook.Kind == piece.Rook && rook.Color == col
}

// Get returns the piece at (r,c). Out-of-range coordinates return an invalid
// sentinel; an on-board empty square returns piece.Empty with Invalid=false.
func (b *Board) Get(r, c int) piece.Piece {
	if r < 1 || r > 8 || c < 1 || c > 8 {
		return piece.Piece{Invalid: true}
	}
	return b.grid[r-1][c-1]
}

// Set overwrites the square at (r,c) and refreshes the king-position cache.
func (b *Board) Set(r, c int, p piece.Piece) {
	p.Row, p.Col, p.Invalid = r, c, false
	b.grid[r-1][c-1] = p
	if p.Kind == piece.King {
		switch p.Color {
		case color.White:
			b.whiteKingPos = square.Position{Row: r, Col: c}
		case color.Black:
			b.blackKingPos = square.Position{Row: r, Col: c}
		}
	}
}

// CastlingRights returns the four per-side flags, in the order: white kingside,
// white queenside, black kingside, black queenside.
func (b *Board) CastlingRights() (wk, wq, bk, bq bool) {
	return b.whiteCanCastleKingside, b.whiteCanCastleQueenside, b.blackCanCastleKingside, b.blackCanCastleQueenside
}

// EnPassantFile returns the en-passant file recorded for the given side (the file
// of the opponent pawn this side may capture en passant), or 0 if none.
func (b *Board) EnPassantFile(side color.Color) int {
	if side == color.White {
		return b.whiteEnPassantFile
	}
	return b.blackEnPassantFile
}

// KingPos returns the cached square of the given side's king, invalid if absent.
func (b *Board) KingPos(side color.Color) square.Position {
	if side == color.White {
		return b.whiteKingPos
	}
	return b.blackKingPos
}

var corners = [4]struct {
	row, col int
	kingside bool
	side     color.Color
}{
	{1, 8, true, color.White},
	{1, 1, false, color.White},
	{8, 8, true, color.Black},
	{8, 1, false, color.Black},
}

func (b *Board) clearCornerRight(r, c int) {
	for _, corner := range corners {
		if corner.row != r || corner.col != c {
			continue
		}
		switch {
		case corner.side == color.White && corner.kingside:
			b.whiteCanCastleKingside = false
		case corner.side == color.White && !corner.kingside:
			b.whiteCanCastleQueenside = false
		case corner.side == color.Black && corner.kingside:
			b.blackCanCastleKingside = false
		default:
			b.blackCanCastleQueenside = false
		}
	}
}

// Apply performs the move with all side effects described in §4.1 and returns
// the captured piece (piece.Empty if none). The caller is responsible for
// legality; Apply never checks it.
func (b *Board) Apply(m move.Move) piece.Piece {
	moved := b.Get(m.Row1, m.Col1)
	taken := b.Get(m.Row2, m.Col2)

	b.whiteEnPassantFile = 0
	b.blackEnPassantFile = 0

	if moved.Kind == piece.King {
		switch moved.Color {
		case color.White:
			b.whiteCanCastleKingside = false
			b.whiteCanCastleQueenside = false
		case color.Black:
			b.blackCanCastleKingside = false
			b.blackCanCastleQueenside = false
		}
	}
	// A rights flag clears when either the moving piece or the captured piece
	// originates from the matching corner square (the "intended" rule; see
	// DESIGN.md for the original's operator-precedence defect this corrects).
	b.clearCornerRight(m.Row1, m.Col1)
	b.clearCornerRight(m.Row2, m.Col2)

	if moved.Kind == piece.King && abs(m.Col2-m.Col1) == 2 {
		if m.Col2 == m.Col1-2 {
			rook := b.Get(m.Row1, 1)
			b.Set(m.Row1, m.Col1-1, rook)
			b.Set(m.Row1, 1, piece.Piece{})
		} else {
			rook := b.Get(m.Row1, 8)
			b.Set(m.Row1, m.Col1+1, rook)
			b.Set(m.Row1, 8, piece.Piece{})
		}
	}

	if moved.Kind == piece.Pawn && m.Col1 != m.Col2 && taken.Kind == piece.Empty {
		taken = b.Get(m.Row1, m.Col2)
	}

	if moved.Kind == piece.Pawn && abs(m.Row2-m.Row1) == 2 {
		if moved.Color == color.Black {
			b.whiteEnPassantFile = m.Col1
		} else {
			b.blackEnPassantFile = m.Col1
		}
	}

	b.Set(m.Row1, m.Col1, piece.Piece{})
	b.Set(taken.Row, taken.Col, piece.Piece{})

	if moved.Kind == piece.Pawn && ((moved.Color == color.White && m.Row2 == 8) || (moved.Color == color.Black && m.Row2 == 1)) {
		b.Set(m.Row2, m.Col2, piece.Piece{Kind: piece.Queen, Color: moved.Color})
	} else {
		b.Set(m.Row2, m.Col2, moved)
	}

	return taken
}

// Undo restores the board to the given snapshot, taken before the matching Apply.
func (b *Board) Undo(snapshot Board) {
	*b = snapshot
}

// Clone returns a full, independent copy of the board.
func (b *Board) Clone() Board {
	return *b
}

// InCheck reports whether the given side's king is attacked. Returns false if
// that side has no king on the board.
func (b *Board) InCheck(side color.Color) bool {
	kp := b.KingPos(side)
	if !kp.IsValid() {
		return false
	}
	return b.squareAttacked(kp.Row, kp.Col, side)
}

// squareAttacked reports whether (r,c) is attacked by the opponent of side, as if
// side's king stood there (used both by InCheck and by castling-through-check tests).
func (b *Board) squareAttacked(r, c int, side color.Color) bool {
	enemy := side.Opponent()

	var pawnRow int
	if side == color.White {
		pawnRow = r + 1
	} else {
		pawnRow = r - 1
	}
	for _, dc := range [2]int{-1, 1} {
		p := b.Get(pawnRow, c+dc)
		if !p.Invalid && p.Kind == piece.Pawn && p.Color == enemy {
			return true
		}
	}

	knightOffsets := [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	for _, o := range knightOffsets {
		p := b.Get(r+o[0], c+o[1])
		if !p.Invalid && p.Kind == piece.Knight && p.Color == enemy {
			return true
		}
	}

	orthogonal := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, d := range orthogonal {
		for i := 1; ; i++ {
			p := b.Get(r+d[0]*i, c+d[1]*i)
			if p.Invalid {
				break
			}
			if p.Kind == piece.Empty {
				continue
			}
			if p.Color == enemy && (p.Kind == piece.Rook || p.Kind == piece.Queen) {
				return true
			}
			break
		}
	}

	diagonal := [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	for _, d := range diagonal {
		for i := 1; ; i++ {
			p := b.Get(r+d[0]*i, c+d[1]*i)
			if p.Invalid {
				break
			}
			if p.Kind == piece.Empty {
				continue
			}
			if p.Color == enemy && (p.Kind == piece.Bishop || p.Kind == piece.Queen) {
				return true
			}
			break
		}
	}

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			p := b.Get(r+dr, c+dc)
			if !p.Invalid && p.Kind == piece.King && p.Color == enemy {
				return true
			}
		}
	}

	return false
}

// CanCastleKingside reports whether side may currently castle kingside: the right
// is still set, the squares between king and rook are empty, and the king's
// current, transit and destination squares are all unattacked.
func (b *Board) CanCastleKingside(side color.Color) bool {
	wk, _, bk, _ := b.CastlingRights()
	allowed := wk
	if side == color.Black {
		allowed = bk
	}
	if !allowed {
		return false
	}
	kp := b.KingPos(side)
	if !kp.IsValid() {
		return false
	}
	for c := kp.Col + 1; c < 8; c++ {
		if !b.Get(kp.Row, c).IsEmpty() {
			return false
		}
	}
	for c := kp.Col; c <= kp.Col+2; c++ {
		if b.squareAttacked(kp.Row, c, side) {
			return false
		}
	}
	return true
}

// CanCastleQueenside reports whether side may currently castle queenside,
// symmetric to CanCastleKingside.
func (b *Board) CanCastleQueenside(side color.Color) bool {
	_, wq, _, bq := b.CastlingRights()
	allowed := wq
	if side == color.Black {
		allowed = bq
	}
	if !allowed {
		return false
	}
	kp := b.KingPos(side)
	if !kp.IsValid() {
		return false
	}
	for c := kp.Col - 1; c > 1; c-- {
		if !b.Get(kp.Row, c).IsEmpty() {
			return false
		}
	}
	for c := kp.Col; c >= kp.Col-2; c-- {
		if b.squareAttacked(kp.Row, c, side) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// String renders the board rank 8 down to rank 1, matching the §6 terminal layout.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 8; r >= 1; r-- {
		for c := 1; c <= 8; c++ {
			sb.WriteString(b.Get(r, c).String())
		}
		if r > 1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
