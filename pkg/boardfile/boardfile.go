// Package boardfile loads the §6 input-file format: a header line naming the
// side to move, followed by eight 8-character rows. Loading is the only
// responsibility here — the grid itself is built by pkg/position.
package boardfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/position"
)

// Load reads the board-file format from r: a header line whose first
// character is W/w/B/b (a second character, if present, is discarded per the
// format's legacy newline-consumption quirk), then exactly 8 rows of 8
// characters each, ranks 8 down to 1.
func Load(r io.Reader) (*position.Board, color.Color, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, color.None, fmt.Errorf("boardfile: missing header line")
	}
	header := scanner.Text()
	if len(header) == 0 {
		return nil, color.None, fmt.Errorf("boardfile: empty header line")
	}
	side, err := parseSide(header[0])
	if err != nil {
		return nil, color.None, err
	}

	var rows [8]string
	for i := 0; i < 8; i++ {
		if !scanner.Scan() {
			return nil, color.None, fmt.Errorf("boardfile: expected 8 board rows, got %d", i)
		}
		rows[i] = scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		return nil, color.None, fmt.Errorf("boardfile: %w", err)
	}

	b, err := position.NewFromRows(rows)
	if err != nil {
		return nil, color.None, err
	}
	return b, side, nil
}

func parseSide(c byte) (color.Color, error) {
	switch c {
	case 'W', 'w':
		return color.White, nil
	case 'B', 'b':
		return color.Black, nil
	default:
		return color.None, fmt.Errorf("boardfile: invalid side-to-move character %q", c)
	}
}
