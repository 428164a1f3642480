package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/eval"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/position"
	"github.com/relaymesh/distchess/pkg/search"
)

func TestStalemate(t *testing.T) {
	// S2: white king h1, black king f2, black queen g3; white to move.
	rows := [8]string{
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"      q ",
		"     k  ",
		"       K",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	res, _, err := search.RunLocal(context.Background(), b, 1, color.White, 1, eval.Material{})
	require.NoError(t, err)
	assert.True(t, res.Move.IsNone())
	assert.Equal(t, eval.Score(0), res.Value)
}

func TestCheckmate(t *testing.T) {
	// S3: as S2 but black queen on g2 giving check.
	rows := [8]string{
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"     kq ",
		"       K",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	res, _, err := search.RunLocal(context.Background(), b, 2, color.White, 1, eval.Material{})
	require.NoError(t, err)
	assert.True(t, res.Move.IsNone())
	assert.Equal(t, eval.MateIn(-1, 2), res.Value)
}

func TestMateInOneIsFound(t *testing.T) {
	// Back-rank mate one ply away: Ra1-a8 checks a king boxed in by its own
	// pawns, with the whole a-file and 8th rank clear ahead of it.
	rows := [8]string{
		"       k",
		"      pp",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"R   K   ",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)
	require.False(t, b.InCheck(color.White), "test setup must not already be in check")

	// Depth 2: the mating move is scored by recursing one ply into the
	// opponent's (empty) reply, where the terminal score is produced.
	res, _, err := search.RunLocal(context.Background(), b, 2, color.White, 1, eval.Material{})
	require.NoError(t, err)
	assert.Equal(t, move.Move{Row1: 1, Col1: 1, Row2: 8, Col2: 1}, res.Move)
	assert.Equal(t, eval.MateIn(1, 1), res.Value)
}

func TestReplicaAgreementAcrossWorkerCounts(t *testing.T) {
	b := position.NewStarting()
	ctx := context.Background()

	baseline, _, err := search.RunLocal(ctx, b, 2, color.White, 1, eval.Material{})
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 4, 8} {
		res, stats, err := search.RunLocal(ctx, b, 2, color.White, workers, eval.Material{})
		require.NoError(t, err)
		assert.Equal(t, baseline.Move, res.Move, "workers=%d", workers)
		assert.Equal(t, baseline.Value, res.Value, "workers=%d", workers)
		assert.Len(t, stats, workers)
	}
}

func TestCompressionRoundTripThroughReduction(t *testing.T) {
	b := position.NewStarting()
	res, _, err := search.RunLocal(context.Background(), b, 1, color.White, 4, eval.Material{})
	require.NoError(t, err)
	assert.Equal(t, res.Move, move.Decompress(res.Move.Compress()))
}
