// Command packbench benchmarks the packed set against baseline containers
// and renders the results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app := kingpin.New("packbench", "Benchmark harness for packed small-integer sets.")
	if err := run(ctx, app, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "packbench:", err)
		os.Exit(1)
	}
}
