// Command vibesense is the developer tool for the vibesense library:
// it replays recorded session traces, validates them, inspects derived
// account profiles, and manages configuration.
package main

import (
	"fmt"
	"os"

	"vibesense/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
