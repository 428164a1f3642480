package movegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/movegen"
	"github.com/relaymesh/distchess/pkg/position"
)

func TestGenerateAllStartingPositionCount(t *testing.T) {
	b := position.NewStarting()
	cands := movegen.GenerateAll(b, color.White)
	assert.Len(t, cands, 20) // 16 pawn moves + 4 knight moves, standard opening count
}

func TestGenerateAllIsDeterministic(t *testing.T) {
	b := position.NewStarting()
	first := movegen.GenerateAll(b, color.White)
	second := movegen.GenerateAll(b, color.White)
	assert.Equal(t, first, second)
}

func TestNoSelfCheck(t *testing.T) {
	b := position.NewStarting()
	for _, c := range movegen.GenerateAll(b, color.White) {
		snapshot := b.Clone()
		b.Apply(c.Move)
		assert.False(t, b.InCheck(color.White), "move %v leaves white in check", c.Move)
		b.Undo(snapshot)
	}
}

func TestEnPassantCaptureOfferedOnlyOnNextMove(t *testing.T) {
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

	cands := movegen.GenerateAll(b, color.White)
	assert.Contains(t, cands, movegen.Candidate{Move: move.Move{Row1: 5, Col1: 5, Row2: 6, Col2: 4}})

	// One more move each side and the en-passant window closes.
	b.Apply(move.Move{Row1: 1, Col1: 5, Row2: 2, Col2: 5}) // Ke1-e2
	b.Apply(move.Move{Row1: 8, Col1: 5, Row2: 7, Col2: 5}) // Ke8-e7
	cands = movegen.GenerateAll(b, color.White)
	assert.NotContains(t, cands, movegen.Candidate{Move: move.Move{Row1: 5, Col1: 5, Row2: 6, Col2: 4}})
}

func TestCastlingBlockedByAttack(t *testing.T) {
	rows := [8]string{
		"     r  ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"R   K  R",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	cands := movegen.GenerateAll(b, color.White)
	assert.NotContains(t, cands, movegen.Candidate{Move: move.Move{Row1: 1, Col1: 5, Row2: 1, Col2: 7}})
	assert.NotContains(t, cands, movegen.Candidate{Move: move.Move{Row1: 1, Col1: 5, Row2: 1, Col2: 3}})
}

func TestCastlingAvailableWhenClear(t *testing.T) {
	rows := [8]string{
		"    k   ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"R   K  R",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	cands := movegen.GenerateAll(b, color.White)
	assert.Contains(t, cands, movegen.Candidate{Move: move.Move{Row1: 1, Col1: 5, Row2: 1, Col2: 7}})
	assert.Contains(t, cands, movegen.Candidate{Move: move.Move{Row1: 1, Col1: 5, Row2: 1, Col2: 3}})
}
