// main is the entry point for the reelstats CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/reelstats/cmd"
	"github.com/huangsam/reelstats/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn stopping profiler: %v\n", perr)
	}
	iocache.CloseCaching()

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
