package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/piece"
	"github.com/relaymesh/distchess/pkg/position"
)

func TestApplyUndoRoundTrip(t *testing.T) {
	b := position.NewStarting()
	before := b.Clone()

	b.Apply(move.Move{Row1: 2, Col1: 5, Row2: 4, Col2: 5}) // e2-e4
	after := b.Clone()
	assert.NotEqual(t, before, after)

	b.Undo(before)
	assert.Equal(t, before, b.Clone())
}

func TestApplyUndoRoundTripCastling(t *testing.T) {
	rows := [8]string{
		"r   k  r",
		"pppppppp",
		"        ",
		"        ",
		"        ",
		"        ",
		"PPPPPPPP",
		"R   K  R",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)
	before := b.Clone()

	b.Apply(move.Move{Row1: 1, Col1: 5, Row2: 1, Col2: 7}) // O-O
	b.Undo(before)
	assert.Equal(t, before, b.Clone())
}

func TestKingPositionCache(t *testing.T) {
	b := position.NewStarting()
	assert.Equal(t, 1, b.KingPos(color.White).Row)
	assert.Equal(t, 5, b.KingPos(color.White).Col)
	assert.Equal(t, 8, b.KingPos(color.Black).Row)

	b.Apply(move.Move{Row1: 1, Col1: 5, Row2: 2, Col2: 5})
	assert.Equal(t, 2, b.KingPos(color.White).Row)
}

func TestCastlingRightsMonotonicity(t *testing.T) {
	b := position.NewStarting()
	wk, wq, bk, bq := b.CastlingRights()
	assert.True(t, wk && wq && bk && bq)

	b.Apply(move.Move{Row1: 1, Col1: 5, Row2: 2, Col2: 5}) // Ke1-e2 loses white rights
	wk, wq, bk, bq = b.CastlingRights()
	assert.False(t, wk)
	assert.False(t, wq)
	assert.True(t, bk)
	assert.True(t, bq)

	b.Apply(move.Move{Row1: 8, Col1: 5, Row2: 7, Col2: 5}) // Ke8-e7 loses black rights
	_, _, bk, bq = b.CastlingRights()
	assert.False(t, bk)
	assert.False(t, bq)
}

func TestCastlingRightsClearedByRookCapture(t *testing.T) {
	rows := [8]string{
		"r   k  r",
		"pppppppp",
		"        ",
		"        ",
		"        ",
		"        ",
		"       n",
		"R   K   ",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	wk, wq, _, _ := b.CastlingRights()
	assert.True(t, wk == false) // white kingside rook already absent from this layout
	assert.True(t, wq)

	b.Apply(move.Move{Row1: 2, Col1: 8, Row2: 1, Col2: 1}) // knight takes a1 rook
	_, wq2, _, _ := b.CastlingRights()
	assert.False(t, wq2)
}

func TestEnPassantFileLifecycle(t *testing.T) {
	rows := [8]string{
		"    k   ",
		"   p    ",
		"        ",
		"    P   ",
		"        ",
		"        ",
		"        ",
		"    K   ",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	b.Apply(move.Move{Row1: 7, Col1: 4, Row2: 5, Col2: 4}) // d7-d5
	assert.Equal(t, 4, b.EnPassantFile(color.White))

	b.Apply(move.Move{Row1: 8, Col1: 5, Row2: 8, Col2: 6}) // Ke8-f8: any further non-capture move clears it
	assert.Equal(t, 0, b.EnPassantFile(color.White))
}

func TestGetOutOfRangeIsInvalid(t *testing.T) {
	b := position.NewStarting()
	assert.True(t, b.Get(0, 1).Invalid)
	assert.True(t, b.Get(9, 1).Invalid)
	assert.True(t, b.Get(1, 0).Invalid)
	assert.True(t, b.Get(1, 9).Invalid)
}

func TestApplyPromotesToQueen(t *testing.T) {
	rows := [8]string{
		"    k   ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"P       ",
		"    K   ",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	b.Apply(move.Move{Row1: 7, Col1: 1, Row2: 8, Col2: 1})
	p := b.Get(8, 1)
	assert.Equal(t, piece.Queen, p.Kind)
	assert.Equal(t, color.White, p.Color)
}
