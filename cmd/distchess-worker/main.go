// distchess-worker is one process of the genuinely distributed N-worker
// search: it dials a coordinator process (pkg/comm/netgroup.Coordinator) and
// plays its assigned share of the search tree over a WebSocket-backed
// comm.Group. Unlike cmd/distchess, which spins its own in-process worker
// pool, this binary IS one worker — launch N of these against one
// coordinator to realize N parallel worker processes (§1).
//
// Only rank 0 drives the terminal: it loads the position, prints the board,
// and reads the operator's moves. Every other rank runs the same search
// blind to stdin and learns the chosen move — engine's or operator's — from
// a broadcast riding the same allreduce primitive the search itself uses
// (§7's "only asymmetric operation in the core").
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/seekerror/logw"

	"github.com/relaymesh/distchess/pkg/boardfile"
	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/comm"
	"github.com/relaymesh/distchess/pkg/comm/netgroup"
	"github.com/relaymesh/distchess/pkg/eval"
	"github.com/relaymesh/distchess/pkg/move"
	"github.com/relaymesh/distchess/pkg/movegen"
	"github.com/relaymesh/distchess/pkg/notation"
	"github.com/relaymesh/distchess/pkg/position"
	"github.com/relaymesh/distchess/pkg/search"
)

var (
	coordinatorURL = flag.String("coordinator", "ws://localhost:8080/ws", "Coordinator WebSocket URL")
	inputFile      = flag.String("f", "", "Board input file, loaded identically by every worker (default: starting position)")
	depth          = flag.Int("d", 1, "Search depth in plies (must be positive)")
	human          = flag.String("human", "black", "Side the rank-0 operator plays: white or black")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	if *depth <= 0 {
		logw.Exitf(ctx, "depth must be positive, got %d", *depth)
	}
	humanSide, err := parseSide(*human)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}
	b, side, err := loadBoard(*inputFile)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}

	world, err := netgroup.Dial(ctx, *coordinatorURL)
	if err != nil {
		logw.Exitf(ctx, "dial coordinator %q: %v", *coordinatorURL, err)
	}
	defer world.Close()

	root := world.Rank() == 0
	logw.Infof(ctx, "distchess-worker rank=%d size=%d root=%v", world.Rank(), world.Size(), root)

	var in <-chan string
	if root {
		in = readOperatorLines(ctx)
	}

	driver := search.Driver{Eval: eval.Material{}}

	for {
		if len(movegen.GenerateAll(&b, side)) == 0 {
			if root {
				announceTerminal(&b, side)
			}
			return
		}

		if side == humanSide {
			m, quit := resolveHumanMove(world, root, &b, side, in)
			if quit {
				if root {
					fmt.Println("quit")
				}
				return
			}
			b.Apply(m)
			side = side.Opponent()
			continue
		}

		res, stats := driver.Search(ctx, &b, *depth, side, world)
		if res.Move.IsNone() {
			if root {
				announceTerminal(&b, side)
			}
			return
		}
		if root {
			fmt.Printf("Best move: %v , %v\n", res.Move, res.Value)
		}
		logw.Debugf(ctx, "rank %d: search nodes=%v", world.Rank(), stats.Nodes)
		b.Apply(res.Move)
		side = side.Opponent()
	}
}

// resolveHumanMove reads and disambiguates one move on the root worker,
// then broadcasts it (or the quit sentinel) to every worker by riding the
// search's own AllReduceArgMax: rank 0 always proposes value 1, every other
// rank proposes 0, so the argmax unconditionally carries rank 0's key
// through the reduction — a one-sided broadcast built from the primitive
// already in place, not a new collective.
func resolveHumanMove(world comm.Group, root bool, b *position.Board, side color.Color, in <-chan string) (move.Move, bool) {
	var chosen move.Move
	quit := false

	if root {
		for {
			fmt.Println("Enter the opponent's move")
			line, ok := <-in
			if !ok {
				quit = true
				break
			}
			line = strings.TrimSpace(line)
			if line == "" {
				quit = true
				break
			}
			cands, err := notation.Candidates(b, side, line)
			if err != nil {
				fmt.Printf("Invalid move: %v\n", err)
				continue
			}
			if len(cands) == 0 {
				fmt.Printf("no legal move matches %q, try again\n", line)
				continue
			}
			chosen = cands[0]
			if len(cands) > 1 {
				for i, c := range cands {
					fmt.Printf("%d: %v\n", i+1, c)
				}
				sel, ok := <-in
				if !ok {
					quit = true
					break
				}
				idx, err := strconv.Atoi(strings.TrimSpace(sel))
				if err != nil || idx < 1 || idx > len(cands) {
					quit = true
					break
				}
				chosen = cands[idx-1]
			}
			break
		}
	}

	var value float64
	var key int32
	if root {
		value = 1
		if !quit {
			key = chosen.Compress()
		}
	}
	_, k := world.AllReduceArgMax(value, key)
	if k == 0 {
		return move.None, true
	}
	return move.Decompress(k), false
}

// readOperatorLines feeds the rank-0 move prompt from stdin, one line per
// legal-move attempt or disambiguation selection.
func readOperatorLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			logw.Debugf(ctx, "operator: %v", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

func announceTerminal(b *position.Board, side color.Color) {
	if b.InCheck(side) {
		fmt.Printf("Checkmate. %v wins.\n", side.Opponent())
	} else {
		fmt.Println("Stalemate!")
	}
}

func loadBoard(path string) (position.Board, color.Color, error) {
	if path == "" {
		return *position.NewStarting(), color.White, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return position.Board{}, color.None, fmt.Errorf("opening input file %q: %w", path, err)
	}
	defer f.Close()

	b, side, err := boardfile.Load(f)
	if err != nil {
		return position.Board{}, color.None, fmt.Errorf("loading %q: %w", path, err)
	}
	return *b, side, nil
}

func parseSide(s string) (color.Color, error) {
	switch s {
	case "white", "w":
		return color.White, nil
	case "black", "b":
		return color.Black, nil
	default:
		return color.None, fmt.Errorf("invalid -human value %q: must be white or black", s)
	}
}
