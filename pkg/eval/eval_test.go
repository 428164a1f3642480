package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/distchess/pkg/eval"
	"github.com/relaymesh/distchess/pkg/position"
)

func TestMaterialStartingPositionIsBalanced(t *testing.T) {
	b := position.NewStarting()
	assert.Equal(t, eval.Score(0), eval.Material{}.Evaluate(b))
}

func TestMaterialCreditsWhiteAdvantage(t *testing.T) {
	rows := [8]string{
		"    k   ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"        ",
		"Q   K   ",
	}
	b, err := position.NewFromRows(rows)
	require.NoError(t, err)

	got := eval.Material{}.Evaluate(b)
	assert.Greater(t, float64(got), 8.0) // queen (9) plus a small mobility edge
}

func TestMateIn(t *testing.T) {
	assert.Equal(t, eval.Score(1001), eval.MateIn(1, 1))
	assert.Equal(t, eval.Score(-1001), eval.MateIn(-1, 1))
	assert.Equal(t, eval.Score(1003), eval.MateIn(1, 3))
}
