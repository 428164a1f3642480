// Package console drives one full game between a human operator, reading and
// writing plain lines (§6's terminal protocol), and the engine: print the
// board, let the engine search and play when it is to move, otherwise parse
// the operator's line as a move and apply it, disambiguating with a numbered
// menu when more than one legal move shares the requested destination.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seekerror/logw"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/engine"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/movegen"
	"github.com/relaymesh/distchess/pkg/notation"
	"github.com/relaymesh/distchess/pkg/position"
)

const ProtocolName = "console"

// Driver runs the game loop for one human side against the engine.
type Driver struct {
	e     *engine.Engine
	human color.Color
	out   chan<- string
}

// NewDriver starts the game loop in the background, driven by in and human
// (the side the operator plays), and returns the line channel it writes to.
func NewDriver(ctx context.Context, e *engine.Engine, human color.Color, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{e: e, human: human, out: out}
	go d.run(ctx, in)
	return d, out
}

func (d *Driver) run(ctx context.Context, in <-chan string) {
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized, human plays %v", d.human)
	d.out <- d.e.Name()

	for {
		b, side := d.e.Position()
		d.printBoard(&b)

		if len(movegen.GenerateAll(&b, side)) == 0 {
			d.announceTerminal(ctx, &b, side)
			return
		}

		if side == d.human {
			if !d.humanMove(ctx, in) {
				return
			}
			continue
		}

		res, stats, err := d.e.FindBest(ctx)
		if err != nil {
			logw.Errorf(ctx, "Search failed: %v", err)
			return
		}
		if res.Move.IsNone() {
			// Mate/stalemate already decided the search result; re-derive the
			// message from the position the search just observed as terminal.
			d.announceTerminal(ctx, &b, side)
			return
		}
		d.out <- fmt.Sprintf("Best move: %v , %v", res.Move, res.Value)
		logw.Debugf(ctx, "FindBest nodes=%v", stats.Nodes)
	}
}

// humanMove prompts for and applies one opponent move, looping on bad input
// until a legal move is applied or the input stream signals quit. Returns
// false if the driver should exit.
func (d *Driver) humanMove(ctx context.Context, in <-chan string) bool {
	for {
		d.out <- "Enter the opponent's move"
		line, ok := <-in
		if !ok {
			logw.Infof(ctx, "Input stream closed. Exiting")
			return false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			d.out <- "quit"
			return false
		}

		b, side := d.e.Position()
		cands, err := notation.Candidates(&b, side, line)
		if err != nil {
			d.out <- fmt.Sprintf("Invalid move: %v", err)
			continue
		}
		if len(cands) == 0 {
			d.out <- fmt.Sprintf("no legal move matches %q, try again", line)
			continue
		}

		chosen := cands[0]
		if len(cands) > 1 {
			m, ok := d.disambiguate(in, cands)
			if !ok {
				return false
			}
			chosen = m
		}

		if err := d.e.Move(ctx, chosen); err != nil {
			d.out <- fmt.Sprintf("illegal move %v, try again", chosen)
			continue
		}
		return true
	}
}

// disambiguate prints a numbered menu and reads a selection. Returns false on
// a broken input stream or unparseable selection, per §6's quit-on-bad-input
// rule.
func (d *Driver) disambiguate(in <-chan string, cands []move.Move) (move.Move, bool) {
	d.out <- "Multiple moves match, choose one:"
	for i, m := range cands {
		d.out <- fmt.Sprintf("%d: %v", i+1, m)
	}

	line, ok := <-in
	if !ok {
		return move.Move{}, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 1 || idx > len(cands) {
		d.out <- "quit: invalid selection"
		return move.Move{}, false
	}
	return cands[idx-1], true
}

// announceTerminal reports checkmate or stalemate for the side with no legal
// moves, per §4.3's terminal scoring.
func (d *Driver) announceTerminal(ctx context.Context, b *position.Board, side color.Color) {
	if b.InCheck(side) {
		d.out <- fmt.Sprintf("Checkmate. %v wins.", side.Opponent())
	} else {
		d.out <- "Stalemate!"
	}
	logw.Infof(ctx, "Game over: %v has no legal moves", side)
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard(b *position.Board) {
	d.out <- ""
	d.out <- files
	d.out <- horizontal
	for r := 8; r >= 1; r-- {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d", r))
		sb.WriteString(vertical)
		for c := 1; c <= 8; c++ {
			p := b.Get(r, c)
			if p.Kind == 0 {
				sb.WriteString(" ")
			} else {
				sb.WriteString(p.String())
			}
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}
	d.out <- files
	d.out <- ""
}
