// Package netgroup implements comm.Group over WebSocket connections between
// a coordinator process and one or more worker processes, for a genuinely
// distributed run of the search driver (§9). It uses the same one-split,
// one-reduce-per-frame discipline as pkg/comm/local, but routes every
// collective through a central coordinator rather than shared memory.
//
// Group membership is identified by a hierarchical path string built from the
// sequence of (groupIndex) choices made on the way down from the root group —
// e.g. "root", "root/0", "root/0/2" — which is unique because a group
// instance performs at most one Split during its lifetime (§4.5).
package netgroup

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"

	"github.com/relaymesh/distchess/pkg/comm"
)

const rootGroupID = "root"

// message is the wire envelope for every coordinator<->worker exchange.
type message struct {
	Kind       string  `json:"kind"` // "hello" | "split" | "splitReply" | "reduce" | "reduceReply"
	GroupID    string  `json:"group_id"`
	GroupIndex int     `json:"group_index,omitempty"`
	NumGroups  int     `json:"num_groups,omitempty"`
	Rank       int     `json:"rank,omitempty"`
	Size       int     `json:"size,omitempty"`
	Mode       string  `json:"mode,omitempty"` // "max" | "min"
	Value      float64 `json:"value,omitempty"`
	Key        int32   `json:"key,omitempty"`
	NewGroupID string  `json:"new_group_id,omitempty"`
}

// Coordinator is the rank-0 rendezvous server: it accepts one WebSocket
// connection per worker, assigns global ranks in connection order, and
// resolves every Split and AllReduce collective centrally.
type Coordinator struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	size    int
	conns   map[int]*websocket.Conn
	ready   chan struct{}
	groups  map[string][]int // groupID -> member global ranks, ascending
	splits  map[string]map[int]int // groupID -> global rank -> groupIndex vote
	splitNG map[string]int         // groupID -> numGroups for the in-flight split
	reduces map[string]map[int]message
}

// NewCoordinator returns a Coordinator expecting exactly size worker
// connections before the root group is considered formed.
func NewCoordinator(size int) *Coordinator {
	return &Coordinator{
		size:    size,
		conns:   make(map[int]*websocket.Conn),
		ready:   make(chan struct{}),
		groups:  map[string][]int{rootGroupID: sequentialRanks(size)},
		splits:  make(map[string]map[int]int),
		splitNG: make(map[string]int),
		reduces: make(map[string]map[int]message),
	}
}

func sequentialRanks(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// ServeHTTP upgrades an incoming connection, assigns it the next free global
// rank, and services its collective requests until it disconnects.
func (c *Coordinator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(r.Context(), "netgroup: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c.mu.Lock()
	rank := len(c.conns)
	if rank >= c.size {
		c.mu.Unlock()
		logw.Errorf(r.Context(), "netgroup: rejecting connection, group already has %d workers", c.size)
		return
	}
	c.conns[rank] = conn
	full := len(c.conns) == c.size
	c.mu.Unlock()

	if err := conn.WriteJSON(message{Kind: "hello", Rank: rank, Size: c.size}); err != nil {
		logw.Errorf(r.Context(), "netgroup: hello to rank %d failed: %v", rank, err)
		return
	}
	if full {
		close(c.ready)
	}

	for {
		var m message
		if err := conn.ReadJSON(&m); err != nil {
			return
		}
		switch m.Kind {
		case "split":
			c.handleSplit(rank, m)
		case "reduce":
			c.handleReduce(rank, m)
		}
	}
}

func (c *Coordinator) handleSplit(rank int, m message) {
	c.mu.Lock()
	votes, ok := c.splits[m.GroupID]
	if !ok {
		votes = make(map[int]int)
		c.splits[m.GroupID] = votes
		c.splitNG[m.GroupID] = m.NumGroups
	}
	votes[rank] = m.GroupIndex
	members := c.groups[m.GroupID]
	if len(votes) != len(members) {
		c.mu.Unlock()
		return
	}

	children := buildChildren(m.GroupID, members, votes)
	for childID, ranks := range children {
		c.groups[childID] = ranks
	}
	delete(c.splits, m.GroupID)
	delete(c.splitNG, m.GroupID)
	conns := make(map[int]*websocket.Conn, len(c.conns))
	for k, v := range c.conns {
		conns[k] = v
	}
	c.mu.Unlock()

	for childID, ranks := range children {
		for newRank, globalRank := range ranks {
			reply := message{Kind: "splitReply", GroupID: m.GroupID, NewGroupID: childID, Rank: newRank, Size: len(ranks)}
			if conn := conns[globalRank]; conn != nil {
				_ = conn.WriteJSON(reply)
			}
		}
	}
}

// buildChildren partitions members by their voted groupIndex, ordered by
// global rank ascending, assigning each a hierarchical child group ID.
func buildChildren(parentID string, members []int, votes map[int]int) map[string][]int {
	byIndex := make(map[int][]int)
	ordered := append([]int(nil), members...)
	sort.Ints(ordered)
	for _, gr := range ordered {
		gi := votes[gr]
		byIndex[gi] = append(byIndex[gi], gr)
	}
	out := make(map[string][]int, len(byIndex))
	for gi, ranks := range byIndex {
		out[fmt.Sprintf("%s/%d", parentID, gi)] = ranks
	}
	return out
}

func (c *Coordinator) handleReduce(rank int, m message) {
	c.mu.Lock()
	votes, ok := c.reduces[m.GroupID]
	if !ok {
		votes = make(map[int]message)
		c.reduces[m.GroupID] = votes
	}
	votes[rank] = m
	members := c.groups[m.GroupID]
	if len(votes) != len(members) {
		c.mu.Unlock()
		return
	}

	best := pickBest(votes, m.Mode)
	delete(c.reduces, m.GroupID)
	conns := make(map[int]*websocket.Conn, len(members))
	for _, gr := range members {
		conns[gr] = c.conns[gr]
	}
	c.mu.Unlock()

	reply := message{Kind: "reduceReply", GroupID: m.GroupID, Value: best.Value, Key: best.Key}
	for _, conn := range conns {
		if conn != nil {
			_ = conn.WriteJSON(reply)
		}
	}
}

func pickBest(votes map[int]message, mode string) message {
	var best message
	first := true
	for _, v := range votes {
		if first {
			best = v
			first = false
			continue
		}
		if mode == "max" {
			if v.Value > best.Value || (v.Value == best.Value && v.Key < best.Key) {
				best = v
			}
		} else {
			if v.Value < best.Value || (v.Value == best.Value && v.Key < best.Key) {
				best = v
			}
		}
	}
	return best
}

// Worker is a comm.Group realized over one WebSocket connection to a
// Coordinator. Dial returns as soon as the coordinator assigns a rank; it
// does not wait for the root group to fill. Collectives block until every
// member of the group has joined them.
type Worker struct {
	ctx     context.Context
	conn    *websocket.Conn
	groupID string
	rank    int
	size    int
}

// Dial connects to a Coordinator at url and blocks until assigned a rank in
// the root group.
func Dial(ctx context.Context, url string) (*Worker, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("netgroup: dial %s: %w", url, err)
	}
	var hello message
	if err := conn.ReadJSON(&hello); err != nil {
		return nil, fmt.Errorf("netgroup: reading hello: %w", err)
	}
	return &Worker{ctx: ctx, conn: conn, groupID: rootGroupID, rank: hello.Rank, size: hello.Size}, nil
}

// Close releases the underlying connection.
func (w *Worker) Close() error { return w.conn.Close() }

func (w *Worker) Rank() int { return w.rank }
func (w *Worker) Size() int { return w.size }

func (w *Worker) Split(numGroups, groupIndex int) comm.Group {
	if w.size == 1 {
		return w
	}
	req := message{Kind: "split", GroupID: w.groupID, GroupIndex: groupIndex, NumGroups: numGroups}
	if err := w.conn.WriteJSON(req); err != nil {
		logw.Exitf(w.ctx, "netgroup: split request failed: %v", err)
	}
	var reply message
	if err := w.conn.ReadJSON(&reply); err != nil {
		logw.Exitf(w.ctx, "netgroup: split reply failed: %v", err)
	}
	return &Worker{ctx: w.ctx, conn: w.conn, groupID: reply.NewGroupID, rank: reply.Rank, size: reply.Size}
}

func (w *Worker) AllReduceArgMax(value float64, key int32) (float64, int32) {
	return w.reduce(value, key, "max")
}

func (w *Worker) AllReduceArgMin(value float64, key int32) (float64, int32) {
	return w.reduce(value, key, "min")
}

func (w *Worker) reduce(value float64, key int32, mode string) (float64, int32) {
	if w.size == 1 {
		return value, key
	}
	req := message{Kind: "reduce", GroupID: w.groupID, Mode: mode, Value: value, Key: key}
	if err := w.conn.WriteJSON(req); err != nil {
		logw.Exitf(w.ctx, "netgroup: reduce request failed: %v", err)
	}
	var reply message
	if err := w.conn.ReadJSON(&reply); err != nil {
		logw.Exitf(w.ctx, "netgroup: reduce reply failed: %v", err)
	}
	return reply.Value, reply.Key
}
