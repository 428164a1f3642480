// Package search implements the depth-D negamax-style driver (C4): two
// mutually recursive procedures, findBest and evaluate, with a single-sided
// alpha cutoff and root-move ordering by shallow pre-score, running over a
// comm.Group worker partition (§4.4).
package search

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/comm"
	"github.com/relaymesh/distchess/pkg/eval"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/movegen"
	"github.com/relaymesh/distchess/pkg/position"
)

// Result is a (move, score) pair, the return value of findBest.
type Result struct {
	Move  move.Move
	Value eval.Score
}

// Stats accumulates per-worker search diagnostics. Not a collective value:
// each worker's Stats reflects only the nodes it personally visited.
type Stats struct {
	Nodes int64
}

// Driver holds the pieces findBest/evaluate need but that don't change across
// a run: the static evaluator.
type Driver struct {
	Eval eval.Evaluator
}

// Search runs the fixed-depth search for side to move from b, using world as
// both the top-level worker group for partitioning and, per §9's retained
// source ambiguity, the group every depth-1 root-ordering pre-score is split
// from — not whatever sub-group the current recursive frame happens to
// occupy. b is not mutated: every recursive step snapshots and restores it.
func (d Driver) Search(ctx context.Context, b *position.Board, depth int, side color.Color, world comm.Group) (Result, Stats) {
	r := &run{eval: d.Eval, world: world, self: world.Split(world.Size(), world.Rank())}
	alpha := eval.PosInf
	if side == color.Black {
		alpha = eval.NegInf
	}
	res := r.findBest(ctx, b, depth, side, world, alpha)
	return res, Stats{Nodes: r.nodes}
}

type run struct {
	eval eval.Evaluator
	// world is the fixed top-level group every depth-1 root-ordering
	// pre-score splits from (§9). self is world's own singleton split,
	// computed once: a comm.Group instance is single-use for collectives
	// (pkg/comm/local), so order() reuses this cached handle across every
	// candidate and every recursion depth instead of re-splitting world.
	world comm.Group
	self  comm.Group
	nodes int64
}

// findBest implements §4.4's five-step procedure: generate, order (d>1
// only), partition, scan with a single-sided cutoff, reduce.
func (r *run) findBest(ctx context.Context, b *position.Board, depth int, side color.Color, g comm.Group, alpha eval.Score) Result {
	r.nodes++

	cands := movegen.GenerateAll(b, side)
	if len(cands) == 0 {
		return terminalResult(b, side, depth)
	}

	if depth > 1 {
		r.order(ctx, b, side, cands)
	}

	asn := comm.Assign(g.Rank(), g.Size(), len(cands))

	var best Result
	if asn.CaseA {
		best = r.scanOwned(ctx, b, depth, side, g, alpha, cands, asn.Indices)
	} else {
		child := g.Split(len(cands), asn.MoveIndex)
		m := cands[asn.MoveIndex].Move
		v := r.evaluate(ctx, b, m, depth, side, child, seedValue(side))
		best = Result{Move: m, Value: v}
	}

	rv, rk := reduce(g, side, float64(best.Value), best.Move.Compress())
	return Result{Move: move.Decompress(rk), Value: eval.Score(rv)}
}

// scanOwned runs Case A: this worker alone owns the moves in indices,
// evaluating each from its own singleton sub-group in order, applying the
// single-sided alpha cutoff from the second move on.
func (r *run) scanOwned(ctx context.Context, b *position.Board, depth int, side color.Color, g comm.Group, alpha eval.Score, cands []movegen.Candidate, indices []int) Result {
	child := g.Split(g.Size(), g.Rank())
	best := Result{Move: move.None, Value: seedValue(side)}

	for i, idx := range indices {
		m := cands[idx].Move
		v := r.evaluate(ctx, b, m, depth, side, child, best.Value)
		if better(side, v, best.Value) {
			best = Result{Move: m, Value: v}
		}
		if i > 0 && cutoff(side, v, alpha) {
			best = Result{Move: m, Value: sentinel(side)}
			break
		}
	}
	return best
}

// evaluate implements §4.4's second procedure: apply the move, score it
// (directly at the search horizon, recursively otherwise), then restore.
func (r *run) evaluate(ctx context.Context, b *position.Board, m move.Move, depth int, side color.Color, g comm.Group, alpha eval.Score) eval.Score {
	snapshot := b.Clone()
	b.Apply(m)

	var v eval.Score
	if depth == 1 {
		v = r.eval.Evaluate(b)
	} else {
		v = r.findBest(ctx, b, depth-1, side.Opponent(), g, alpha).Value
	}

	b.Undo(snapshot)
	return v
}

// order fills in each candidate's shallow pre-score and sorts descending
// (White) or ascending (Black), ties broken by the move's compressed value —
// the same deterministic tie-break the reduction itself uses (§4.5). Every
// pre-score evaluation runs on r.self, the top-level world group's own
// singleton split, not off g: an intentionally retained source quirk (§9).
func (r *run) order(ctx context.Context, b *position.Board, side color.Color, cands []movegen.Candidate) {
	for i := range cands {
		v := r.evaluate(ctx, b, cands[i].Move, 1, side, r.self, 0)
		cands[i].PreScore = float64(v)
	}
	slices.SortFunc(cands, func(a, b movegen.Candidate) int {
		if a.PreScore != b.PreScore {
			if (a.PreScore > b.PreScore) == (side == color.White) {
				return -1
			}
			return 1
		}
		ac, bc := a.Move.Compress(), b.Move.Compress()
		switch {
		case ac < bc:
			return -1
		case ac > bc:
			return 1
		}
		return 0
	})
}

func terminalResult(b *position.Board, side color.Color, depth int) Result {
	if !b.InCheck(side) {
		return Result{Move: move.None, Value: 0}
	}
	winner := -1 // White mated
	if side == color.Black {
		winner = 1
	}
	return Result{Move: move.None, Value: eval.MateIn(winner, depth)}
}

func seedValue(side color.Color) eval.Score {
	if side == color.White {
		return eval.NegInf
	}
	return eval.PosInf
}

func sentinel(side color.Color) eval.Score {
	if side == color.White {
		return eval.PosInf
	}
	return eval.NegInf
}

func better(side color.Color, v, best eval.Score) bool {
	if side == color.White {
		return v > best
	}
	return v < best
}

func cutoff(side color.Color, v, alpha eval.Score) bool {
	if side == color.White {
		return v >= alpha
	}
	return v <= alpha
}

func reduce(g comm.Group, side color.Color, value float64, key int32) (float64, int32) {
	if side == color.White {
		return g.AllReduceArgMax(value, key)
	}
	return g.AllReduceArgMin(value, key)
}
