package boardfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymesh/distchess/pkg/boardfile"
	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/piece"
)

func TestLoadStartingPosition(t *testing.T) {
	input := "Wx\n" +
		"rnbqkbnr\n" +
		"pppppppp\n" +
		"        \n" +
		"        \n" +
		"        \n" +
		"        \n" +
		"PPPPPPPP\n" +
		"RNBQKBNR\n"

	b, side, err := boardfile.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, color.White, side)
	assert.Equal(t, piece.Rook, b.Get(1, 1).Kind)
	assert.Equal(t, color.White, b.Get(1, 1).Color)
	assert.Equal(t, piece.King, b.Get(8, 5).Kind)
	assert.Equal(t, color.Black, b.Get(8, 5).Color)
}

func TestLoadRejectsBadHeader(t *testing.T) {
	_, _, err := boardfile.Load(strings.NewReader("Z\n"))
	assert.Error(t, err)
}

func TestLoadRejectsShortRow(t *testing.T) {
	input := "B\n" +
		"rnbqkbn\n" + // only 7 characters
		"pppppppp\n" +
		"        \n" +
		"        \n" +
		"        \n" +
		"        \n" +
		"PPPPPPPP\n" +
		"RNBQKBNR\n"
	_, _, err := boardfile.Load(strings.NewReader(input))
	assert.Error(t, err)
}
