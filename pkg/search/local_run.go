package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/comm/local"
	"github.com/relaymesh/distchess/pkg/eval"
	"github.com/relaymesh/distchess/pkg/position"
)

// RunLocal drives an in-process, workers-way parallel search of b and
// returns the winning result plus every worker's own stats. By construction
// (§8 property 2, replica agreement) every worker's Result is identical, so
// the first is returned as the answer.
func RunLocal(ctx context.Context, b *position.Board, depth int, side color.Color, workers int, ev eval.Evaluator) (Result, []Stats, error) {
	groups := local.NewRoot(workers)
	results := make([]Result, workers)
	stats := make([]Stats, workers)

	eg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		eg.Go(func() error {
			clone := b.Clone()
			res, st := Driver{Eval: ev}.Search(ctx, &clone, depth, side, groups[i])
			results[i] = res
			stats[i] = st
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, nil, err
	}
	return results[0], stats, nil
}
