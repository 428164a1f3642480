// distchess is the terminal-driven CLI: it loads a position (or starts from
// the canonical opening position), plays one side against the engine's
// fixed-depth distributed search, and exits when the game reaches a terminal
// state or the operator quits.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"

	"github.com/relaymesh/distchess/pkg/boardfile"
	"github.com/relaymesh/distchess/pkg/color"
	"github.com/relaymesh/distchess/pkg/engine"
	"github.com/relaymesh/distchess/pkg/engine/console"
	"github.com/relaymesh/distchess/pkg/eval"
	"github.com/relaymesh/distchess/pkg/position"
)

var (
	inputFile  = flag.String("f", "", "Board input file (default: canonical starting position)")
	depth      = flag.Int("d", 1, "Search depth in plies (must be positive)")
	workers    = flag.Int("workers", 1, "Size of the in-process worker group driving the search")
	configFile = flag.String("config", "", "Optional YAML file pinning depth/workers defaults; flags override it")
	human      = flag.String("human", "black", "Side the operator plays from the terminal: white or black")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: distchess [options]

distchess plays a fixed-depth distributed chess search against a human
operator at the terminal. The engine's move list, evaluation, and search are
replicated across -workers in-process workers coordinated by an allreduce
over the root move partition.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := engine.Options{Depth: *depth, Workers: *workers}
	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			logw.Exitf(ctx, "opening config file %q: %v", *configFile, err)
		}
		cfg, err := engine.LoadConfig(f)
		_ = f.Close()
		if err != nil {
			logw.Exitf(ctx, "%v", err)
		}
		opts = cfg.Resolve(opts)
	}
	// Flags set explicitly on the command line take final precedence over
	// the config file, per §6.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "d":
			opts.Depth = *depth
		case "workers":
			opts.Workers = *workers
		}
	})

	if opts.Depth <= 0 {
		logw.Exitf(ctx, "depth must be positive, got %d", opts.Depth)
	}
	if opts.Workers <= 0 {
		logw.Exitf(ctx, "workers must be positive, got %d", opts.Workers)
	}

	humanSide, err := parseSide(*human)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}

	e := engine.New(ctx, engine.WithOptions(opts), engine.WithEvaluator(eval.Material{}))

	if *inputFile != "" {
		b, side, err := loadBoardFile(*inputFile)
		if err != nil {
			logw.Exitf(ctx, "%v", err)
		}
		e.Reset(ctx, b, side)
	}

	_, out := console.NewDriver(ctx, e, humanSide, readOperatorLines(ctx))
	for line := range out {
		fmt.Println(line)
	}
}

// readOperatorLines feeds the console driver's move prompt from stdin, one
// line per legal-move attempt or disambiguation selection.
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

func loadBoardFile(path string) (*position.Board, color.Color, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, color.None, fmt.Errorf("opening input file %q: %w", path, err)
	}
	defer f.Close()

	b, side, err := boardfile.Load(f)
	if err != nil {
		return nil, color.None, fmt.Errorf("loading %q: %w", path, err)
	}
	return b, side, nil
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
