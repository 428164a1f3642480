package move_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaymesh/distchess/pkg/move"
)

func TestCompressDecompress(t *testing.T) {
	tests := []struct {
		m    move.Move
		want int32
	}{
		{move.Move{Row1: 2, Col1: 5, Row2: 4, Col2: 5}, 0x02050405},
		{move.None, 0},
		{move.Move{Row1: 1, Col1: 1, Row2: 8, Col2: 8}, 0x01010808},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m.Compress())
		assert.Equal(t, tt.m, move.Decompress(tt.want))
	}
}

func TestIsNone(t *testing.T) {
	assert.True(t, move.None.IsNone())
	assert.True(t, move.Move{}.IsNone())
	assert.False(t, move.Move{Row1: 2, Col1: 2, Row2: 3, Col2: 2}.IsNone())
}
