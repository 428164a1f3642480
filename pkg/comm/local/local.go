// Package local implements comm.Group in-process, over goroutines that meet
// at mutex- and condition-variable-guarded rendezvous points, with no network hop — the default worker-group realization used
// for single-process runs and for tests that need deterministic replica
// agreement across a range of worker counts (§9, "may be realized over any
// message-passing substrate").
package local

import (
	"sort"
	"sync"

	"github.com/relaymesh/distchess/pkg/comm"
)

// NewRoot returns size comm.Group handles sharing one root rendezvous point.
// The caller is expected to drive each handle from its own goroutine; see
// pkg/search for the orchestration that does so.
func NewRoot(size int) []comm.Group {
	root := newRendezvous(size)
	out := make([]comm.Group, size)
	for r := 0; r < size; r++ {
		out[r] = &group{rank: r, size: size, rv: root}
	}
	return out
}

// group is this package's comm.Group: one worker's view of a rendezvous shared with its
// peers. A group value is single-use for collectives — Split and each
// AllReduce* call are expected at most once per instance, matching the
// search driver's one-split-one-reduce-per-frame discipline (§4.5).
type group struct {
	rank int
	size int
	rv   *rendezvous
}

func (g *group) Rank() int { return g.rank }
func (g *group) Size() int { return g.size }

func (g *group) Split(numGroups, groupIndex int) comm.Group {
	if g.size == 1 {
		return &group{rank: 0, size: 1, rv: newRendezvous(1)}
	}
	return g.rv.split(g.rank, groupIndex, numGroups)
}

func (g *group) AllReduceArgMax(value float64, key int32) (float64, int32) {
	if g.size == 1 {
		return value, key
	}
	return g.rv.reduce(value, key, true)
}

func (g *group) AllReduceArgMin(value float64, key int32) (float64, int32) {
	if g.size == 1 {
		return value, key
	}
	return g.rv.reduce(value, key, false)
}

// rendezvous is a one-shot barrier shared by every member of a group. It
// gathers exactly one Split call and one AllReduce call from each of `size`
// members before releasing any of them, matching the fact that a search
// frame performs at most one of each before the frame returns and the group
// is discarded.
type rendezvous struct {
	size int

	splitMu  sync.Mutex
	splitCnd *sync.Cond
	splitIn  []splitVote
	// splitOut maps parent rank -> this worker's sub-group handle, filled
	// once every member has voted.
	splitOut map[int]*group

	reduceMu  sync.Mutex
	reduceCnd *sync.Cond
	reduceIn  []reduceVote
	reduceOut *reduceResult
}

type splitVote struct {
	rank       int
	groupIndex int
}

type reduceVote struct {
	value float64
	key   int32
}

type reduceResult struct {
	value float64
	key   int32
}

func newRendezvous(size int) *rendezvous {
	rv := &rendezvous{size: size}
	rv.splitCnd = sync.NewCond(&rv.splitMu)
	rv.reduceCnd = sync.NewCond(&rv.reduceMu)
	return rv
}

func (rv *rendezvous) split(rank, groupIndex, numGroups int) comm.Group {
	rv.splitMu.Lock()
	rv.splitIn = append(rv.splitIn, splitVote{rank: rank, groupIndex: groupIndex})
	if len(rv.splitIn) == rv.size {
		rv.splitOut = buildSubgroups(rv.splitIn)
		rv.splitCnd.Broadcast()
	} else {
		for rv.splitOut == nil {
			rv.splitCnd.Wait()
		}
	}
	out := rv.splitOut[rank]
	rv.splitMu.Unlock()
	return out
}

// buildSubgroups assigns each voter a rank within its sub-group, ordered by
// the voter's rank in the parent group ascending, wires every member of the
// same sub-group to a rendezvous shared only among themselves, and returns
// the result keyed by parent rank so each caller gets its own correctly
// ranked handle back.
func buildSubgroups(votes []splitVote) map[int]*group {
	sorted := append([]splitVote(nil), votes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].rank < sorted[j].rank })

	byGroup := make(map[int][]int) // groupIndex -> parent ranks, ascending
	for _, v := range sorted {
		byGroup[v.groupIndex] = append(byGroup[v.groupIndex], v.rank)
	}

	out := make(map[int]*group, len(votes))
	for _, ranks := range byGroup {
		sub := newRendezvous(len(ranks))
		for newRank, parentRank := range ranks {
			out[parentRank] = &group{rank: newRank, size: len(ranks), rv: sub}
		}
	}
	return out
}

func (rv *rendezvous) reduce(value float64, key int32, max bool) (float64, int32) {
	rv.reduceMu.Lock()
	rv.reduceIn = append(rv.reduceIn, reduceVote{value: value, key: key})
	if len(rv.reduceIn) == rv.size {
		best := rv.reduceIn[0]
		for _, v := range rv.reduceIn[1:] {
			if max {
				if v.value > best.value || (v.value == best.value && v.key < best.key) {
					best = v
				}
			} else {
				if v.value < best.value || (v.value == best.value && v.key < best.key) {
					best = v
				}
			}
		}
		rv.reduceOut = &reduceResult{value: best.value, key: best.key}
		rv.reduceCnd.Broadcast()
	} else {
		for rv.reduceOut == nil {
			rv.reduceCnd.Wait()
		}
	}
	out := *rv.reduceOut
	rv.reduceMu.Unlock()
	return out.value, out.key
}
