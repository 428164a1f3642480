package comm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relaymesh/distchess/pkg/comm"
)

func TestAssignCaseARoundRobin(t *testing.T) {
	// 3 workers, 7 moves: worker i owns {i, i+3, i+6, ...}.
	for rank := 0; rank < 3; rank++ {
		a := comm.Assign(rank, 3, 7)
		assert.True(t, a.CaseA)
		for _, idx := range a.Indices {
			assert.Equal(t, rank, idx%3)
		}
	}
}

func TestAssignCaseACoversEveryMoveExactlyOnce(t *testing.T) {
	const size, numMoves = 4, 10
	seen := make(map[int]int)
	for rank := 0; rank < size; rank++ {
		a := comm.Assign(rank, size, numMoves)
		for _, idx := range a.Indices {
			seen[idx]++
		}
	}
	assert.Len(t, seen, numMoves)
	for idx := 0; idx < numMoves; idx++ {
		assert.Equal(t, 1, seen[idx], "move %d covered %d times", idx, seen[idx])
	}
}

func TestAssignCaseBEvenSplit(t *testing.T) {
	// 6 workers, 3 moves, divides evenly: 2 workers per move.
	counts := make(map[int]int)
	for rank := 0; rank < 6; rank++ {
		a := comm.Assign(rank, 6, 3)
		assert.False(t, a.CaseA)
		assert.Equal(t, 2, a.GroupSize)
		counts[a.MoveIndex]++
	}
	assert.Equal(t, map[int]int{0: 2, 1: 2, 2: 2}, counts)
}

func TestAssignCaseBUnevenSplit(t *testing.T) {
	// 7 workers, 3 moves: procsPerMove=ceil(7/3)=3, remainder=7%3=1.
	// Group 0 gets 3 workers (ranks 0-2), groups 1 and 2 get 2 each (ranks 3-4, 5-6).
	wantGroup := map[int]int{0: 0, 1: 0, 2: 0, 3: 1, 4: 1, 5: 2, 6: 2}
	wantSize := map[int]int{0: 3, 1: 2, 2: 2}
	for rank, wantMove := range wantGroup {
		a := comm.Assign(rank, 7, 3)
		assert.False(t, a.CaseA)
		assert.Equal(t, wantMove, a.MoveIndex, "rank %d", rank)
		assert.Equal(t, wantSize[wantMove], a.GroupSize, "rank %d", rank)
	}

	// GroupRank is 0-based and distinct within each group.
	seen := make(map[int]map[int]bool)
	for rank := 0; rank < 7; rank++ {
		a := comm.Assign(rank, 7, 3)
		if seen[a.MoveIndex] == nil {
			seen[a.MoveIndex] = make(map[int]bool)
		}
		assert.False(t, seen[a.MoveIndex][a.GroupRank], "duplicate group rank in move %d", a.MoveIndex)
		seen[a.MoveIndex][a.GroupRank] = true
	}
}
