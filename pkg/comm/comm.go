// Package comm defines the worker-group abstraction (C5): the minimal set of
// collective operations the distributed search driver needs — rank/size, a
// deterministic split into sub-groups, and an argmax/argmin all-reduce over a
// (score, compressed move) pair. See §4.5 and §9 of the specification.
//
// An implementer may realize Group over any message-passing substrate, or, for
// a single-worker target, as a no-op where Split returns the same group and
// AllReduce* is the identity. This package ships two realizations:
// pkg/comm/local (in-process goroutines) and pkg/comm/netgroup (WebSocket-
// connected worker processes).
package comm

// Group is a named set of cooperating workers.
type Group interface {
	// Rank returns this worker's 0-based index within the group.
	Rank() int
	// Size returns the number of workers in the group.
	Size() int
	// Split partitions the group into numGroups sub-groups. Every member must
	// call Split exactly once per frame with its own, locally (and
	// deterministically) computed groupIndex in [0,numGroups); members that
	// pass the same groupIndex end up together in the returned sub-group,
	// ordered by their rank in the parent group. A new sub-communicator is
	// created at the start of each recursive call and is never reused once
	// the frame returns (§4.5 "Communicator discipline").
	Split(numGroups, groupIndex int) Group
	// AllReduceArgMax returns the (value, key) pair with the largest value
	// across every member of the group, ties broken by the smaller key —
	// the same rule the original MPI_MAXLOC collective applies when the loc
	// field of a tied pair is compared. Every member must call with its own
	// local pair and all receive the identical result.
	AllReduceArgMax(value float64, key int32) (float64, int32)
	// AllReduceArgMin is the dual of AllReduceArgMax: smallest value wins,
	// ties broken by the smaller key (MPI_MINLOC's rule).
	AllReduceArgMin(value float64, key int32) (float64, int32)
}
