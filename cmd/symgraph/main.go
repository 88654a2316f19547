// Command symgraph is the CLI surface over the call-graph analytics
// core: one subcommand per §6 request contract, plus an `enrich` job
// that runs the enrichment pipeline and publishes a derived snapshot.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
