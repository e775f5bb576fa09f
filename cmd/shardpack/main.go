// Command shardpack consolidates small per-repository search index shards
// into larger compound shards.
package main

import (
	"fmt"
	"os"

	"github.com/idxops/shardpack/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
