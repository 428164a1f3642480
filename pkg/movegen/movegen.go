// Package movegen implements the pseudo-legal move generator and the self-check
// legality filter (C2). Generation order is deterministic: rows 1..8, then cols
// 1..8, and within a source square a fixed per-kind offset order — the parallel
// coordinator (C5) assigns moves to workers by index, so this determinism is load
// bearing, not cosmetic.
package movegen

import (
	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/piece"
	"github.com/relaymesh/distchess/pkg/position"
)

// Candidate pairs a legal move with a pre-score slot, filled in later by the
// search driver's root-ordering pass (§4.4 step 2). It is always 0 fresh off
// GenerateAll.
type Candidate struct {
	Move     move.Move
	PreScore float64
}

// GenerateAll enumerates every legal move for side, in deterministic order.
func GenerateAll(b *position.Board, side color.Color) []Candidate {
	var out []Candidate
	forEachPseudoLegal(b, side, func(m move.Move) {
		if isLegal(b, m) {
			out = append(out, Candidate{Move: m})
		}
	})
	return out
}

// CountAll returns the number of legal moves for side without materializing a
// move list — used only by the evaluator's mobility term.
func CountAll(b *position.Board, side color.Color) int {
	n := 0
	forEachPseudoLegal(b, side, func(m move.Move) {
		if isLegal(b, m) {
			n++
		}
	})
	return n
}

// isLegal reports whether a pseudo-legal move leaves its own mover out of check.
func isLegal(b *position.Board, m move.Move) bool {
	mover := b.Get(m.Row1, m.Col1).Color
	snapshot := b.Clone()
	b.Apply(m)
	inCheck := b.InCheck(mover)
	b.Undo(snapshot)
	return !inCheck
}

var rookDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
var bishopDirs = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
var knightOffsets = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}

func forEachPseudoLegal(b *position.Board, side color.Color, emit func(move.Move)) {
	for r := 1; r <= 8; r++ {
		for c := 1; c <= 8; c++ {
			p := b.Get(r, c)
			if p.Color != side {
				continue
			}
			switch p.Kind {
			case piece.Pawn:
				pawnMoves(b, side, r, c, emit)
			case piece.Rook:
				slideMoves(b, side, r, c, rookDirs[:], emit)
			case piece.Knight:
				knightMoves(b, side, r, c, emit)
			case piece.Bishop:
				slideMoves(b, side, r, c, bishopDirs[:], emit)
			case piece.Queen:
				slideMoves(b, side, r, c, rookDirs[:], emit)
				slideMoves(b, side, r, c, bishopDirs[:], emit)
			case piece.King:
				kingMoves(b, side, r, c, emit)
			}
		}
	}
}

func pawnMoves(b *position.Board, side color.Color, r, c int, emit func(move.Move)) {
	dir := 1
	startRow := 2
	fifthRank := 5
	enemy := color.Black
	if side == color.Black {
		dir = -1
		startRow = 7
		fifthRank = 4
		enemy = color.White
	}

	if b.Get(r+dir, c).IsEmpty() {
		emit(move.Move{Row1: r, Col1: c, Row2: r + dir, Col2: c})
		if r == startRow && b.Get(r+2*dir, c).IsEmpty() {
			emit(move.Move{Row1: r, Col1: c, Row2: r + 2*dir, Col2: c})
		}
	}

	left := b.Get(r+dir, c-1)
	right := b.Get(r+dir, c+1)
	if !left.Invalid && left.Color == enemy {
		emit(move.Move{Row1: r, Col1: c, Row2: r + dir, Col2: c - 1})
	}
	if !right.Invalid && right.Color == enemy {
		emit(move.Move{Row1: r, Col1: c, Row2: r + dir, Col2: c + 1})
	}

	if r == fifthRank {
		epFile := b.EnPassantFile(side)
		if epFile == c-1 {
			target := b.Get(r, c-1)
			if target.Color == enemy && target.Kind == piece.Pawn {
				emit(move.Move{Row1: r, Col1: c, Row2: r + dir, Col2: c - 1})
			}
		}
		if epFile == c+1 {
			target := b.Get(r, c+1)
			if target.Color == enemy && target.Kind == piece.Pawn {
				emit(move.Move{Row1: r, Col1: c, Row2: r + dir, Col2: c + 1})
			}
		}
	}
}

func slideMoves(b *position.Board, side color.Color, r, c int, dirs [][2]int, emit func(move.Move)) {
	for _, d := range dirs {
		for i := 1; ; i++ {
			nr, nc := r+d[0]*i, c+d[1]*i
			p := b.Get(nr, nc)
			if p.Invalid {
				break
			}
			if p.Color != side {
				emit(move.Move{Row1: r, Col1: c, Row2: nr, Col2: nc})
			}
			if p.Kind != piece.Empty {
				break
			}
		}
	}
}

func knightMoves(b *position.Board, side color.Color, r, c int, emit func(move.Move)) {
	for _, o := range knightOffsets {
		p := b.Get(r+o[0], c+o[1])
		if !p.Invalid && p.Color != side {
			emit(move.Move{Row1: r, Col1: c, Row2: r + o[0], Col2: c + o[1]})
		}
	}
}

func kingMoves(b *position.Board, side color.Color, r, c int, emit func(move.Move)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			p := b.Get(r+dr, c+dc)
			if !p.Invalid && p.Color != side {
				emit(move.Move{Row1: r, Col1: c, Row2: r + dr, Col2: c + dc})
			}
		}
	}

	if b.CanCastleQueenside(side) {
		emit(move.Move{Row1: r, Col1: c, Row2: r, Col2: c - 2})
	}
	if b.CanCastleKingside(side) {
		emit(move.Move{Row1: r, Col1: c, Row2: r, Col2: c + 2})
	}
}
