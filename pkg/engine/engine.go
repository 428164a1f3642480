// Package engine wires the core search (pkg/search) and position state
// machine (pkg/position) into the stateful game session the terminal
// protocol (§6) drives: reset, apply the opponent's move, find and play the
// engine's own move, take a move back.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/eval"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/movegen"
	"github.com/relaymesh/distchess/pkg/position"
	"github.com/relaymesh/distchess/pkg/search"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation options.
type Options struct {
	// Depth is the fixed search depth in plies. Non-positive is invalid.
	Depth int
	// Workers is the size of the in-process worker group driving the search.
	// 1 means a plain serial search.
	Workers int
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, workers=%v}", o.Depth, o.Workers)
}

// Engine holds the live game state: a position, the side to move, and the
// options controlling how the next search runs.
type Engine struct {
	eval eval.Evaluator
	opts Options

	mu   sync.Mutex
	b    *position.Board
	side color.Color
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets the fixed search depth and worker-group size.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithEvaluator overrides the default material evaluator.
func WithEvaluator(ev eval.Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

// New returns an Engine set to the canonical starting position, White to
// move, unless overridden by a later Reset.
func New(ctx context.Context, opts ...Option) *Engine {
	e := &Engine{
		eval: eval.Material{},
		opts: Options{Depth: 1, Workers: 1},
		b:    position.NewStarting(),
		side: color.White,
	}
	for _, fn := range opts {
		fn(e)
	}
	logw.Infof(ctx, "Initialized distchess engine %v, options=%v", version, e.opts)
	return e
}

// Name returns the engine name and version, for protocol banners.
func (e *Engine) Name() string {
	return fmt.Sprintf("distchess %v", version)
}

// Reset replaces the current position and side to move wholesale, e.g. from
// a loaded board file.
func (e *Engine) Reset(ctx context.Context, b *position.Board, side color.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b = b
	e.side = side
	logw.Infof(ctx, "Reset: %v to move\n%v", side, e.b)
}

// Position returns a snapshot of the current board and side to move.
func (e *Engine) Position() (position.Board, color.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Clone(), e.side
}

// Move applies m, an opponent (or otherwise externally supplied) move,
// provided it is currently legal.
func (e *Engine) Move(ctx context.Context, m move.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	legal := false
	for _, c := range movegen.GenerateAll(e.b, e.side) {
		if c.Move == m {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("illegal move: %v", m)
	}

	e.b.Apply(m)
	e.side = e.side.Opponent()
	logw.Infof(ctx, "Move %v, %v to move next", m, e.side)
	return nil
}

// TakeBack restores a previously captured position and side to move, e.g.
// to undo the engine's own last move.
func (e *Engine) TakeBack(ctx context.Context, snapshot position.Board, side color.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.b.Undo(snapshot)
	e.side = side
	logw.Infof(ctx, "Takeback: %v to move", side)
}

// FindBest runs the distributed search to the configured depth and plays the
// winning move, returning it along with the aggregate node count across
// every worker.
func (e *Engine) FindBest(ctx context.Context) (search.Result, search.Stats, error) {
	e.mu.Lock()
	b := e.b.Clone()
	side, depth, workers := e.side, e.opts.Depth, e.opts.Workers
	e.mu.Unlock()

	res, perWorker, err := search.RunLocal(ctx, &b, depth, side, workers, e.eval)
	if err != nil {
		return search.Result{}, search.Stats{}, fmt.Errorf("search failed: %w", err)
	}

	var total search.Stats
	for _, s := range perWorker {
		total.Nodes += s.Nodes
	}
	logw.Debugf(ctx, "FindBest %v=%v, nodes=%v across %v workers", side, res.Value, total.Nodes, workers)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !res.Move.IsNone() {
		e.b.Apply(res.Move)
		e.side = e.side.Opponent()
	}
	return res, total, nil
}
