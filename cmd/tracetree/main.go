// Command tracetree runs a command under ptrace and reports the tree of
// every process it transitively spawns.
package main

import (
	"os"

	"github.com/luser/tracetree/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
