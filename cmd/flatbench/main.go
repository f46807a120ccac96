// Command flatbench benchmarks the ordered maps of this module against each
// other and prints a report.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s failed: %v\n", appName, err)
		os.Exit(1)
	}
}
