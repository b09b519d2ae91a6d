// Command bgm picks background music for video edits from the music catalog.
// Run without arguments it walks through a short demo: catalog genres and
// moods, a few session picks that never repeat, a list of options for manual
// selection and a tempo-filtered search. Subcommands expose each operation
// on its own, and `bgm serve` offers the same operations as a local JSON API.
//
// Configuration comes from ~/.bgm.yaml (or --config) and environment
// variables; with neither set the catalog is expected at
// http://localhost:3000/api/music. Catalog failures are logged and never
// change the exit code.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
