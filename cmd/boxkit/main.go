// Command boxkit renders HTML documents to PNG, compares renderings and
// prints element and selector trees.
package main

import (
	"fmt"
	"os"

	"boxkit/internal/observability"
)

func main() {
	err := newRootCmd().Execute()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
