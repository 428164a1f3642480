// distchess-coordinator serves the rank-0 rendezvous for a networked run of
// distchess-worker processes: it accepts exactly -size WebSocket
// connections, assigns each a global rank, and resolves every Split and
// AllReduce collective the workers' search issues against pkg/comm/netgroup.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/seekerror/logw"

	"github.com/relaymesh/distchess/pkg/comm/netgroup"
)

var (
	addr = flag.String("addr", ":8080", "Listen address")
	path = flag.String("path", "/ws", "WebSocket path workers dial")
	size = flag.Int("size", 1, "Number of worker processes the root group expects (must be positive)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: distchess-coordinator [options]

distchess-coordinator is the rank-0 rendezvous server for a networked
distchess run: start it first, then launch -size distchess-worker
processes pointed at its -addr/-path. It never evaluates a position
itself — it only resolves the Split/AllReduce collectives workers
issue against each other.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if *size <= 0 {
		logw.Exitf(ctx, "size must be positive, got %d", *size)
	}

	c := netgroup.NewCoordinator(*size)
	mux := http.NewServeMux()
	mux.Handle(*path, c)

	logw.Infof(ctx, "distchess-coordinator listening on %v%v, expecting %d workers", *addr, *path, *size)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logw.Exitf(ctx, "serve failed: %v", err)
	}
}
