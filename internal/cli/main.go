// Package cli is tracetree's command-line entrypoint.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// version is overridden at build time via -ldflags.
var version = "dev"

type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "show version and exit" }
func (*versionCmd) Usage() string          { return "version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stdout, "tracetree version %s\n", version)
	return subcommands.ExitSuccess
}

// Main is tracetree's entrypoint, registered the same way
// runsc/cli.Main registers its subcommands.
func Main() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(new(versionCmd), "")
	subcommands.Register(new(traceCmd), "")

	flag.Parse()
	return int(subcommands.Execute(context.Background()))
}
