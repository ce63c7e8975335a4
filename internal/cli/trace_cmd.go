package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/luser/tracetree/internal/config"
)

// traceCmd implements subcommands.Command for tracetree's only real
// action: run a command under ptrace and report the process tree it
// spawned. Flag registration mirrors runsc's per-command SetFlags.
type traceCmd struct {
	out       string
	format    string
	debug     bool
	logFormat string
	confPath  string
}

func (*traceCmd) Name() string     { return "trace" }
func (*traceCmd) Synopsis() string { return "run a command and report the process tree it spawns" }
func (*traceCmd) Usage() string {
	return "trace [flags] -- <command> [args...]\n"
}

func (c *traceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "out", "", "write the tree to this path instead of stdout")
	f.StringVar(&c.format, "format", "text", "output format: text or json")
	f.BoolVar(&c.debug, "debug", false, "enable debug-level logging")
	f.StringVar(&c.logFormat, "log-format", "text", "log output format: text or json")
	f.StringVar(&c.confPath, "config", "", "load flag defaults from this TOML file")
}

func (c *traceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	argv := f.Args()
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "trace: no command given")
		f.Usage()
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load(c.confPath, config.Config{
		Out:       c.out,
		Format:    c.format,
		Debug:     c.debug,
		LogFormat: c.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace: %v\n", err)
		return subcommands.ExitFailure
	}
	// Flags given explicitly on the command line win over the config file.
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "out":
			cfg.Out = c.out
		case "format":
			cfg.Format = c.format
		case "debug":
			cfg.Debug = c.debug
		case "log-format":
			cfg.LogFormat = c.logFormat
		}
	})

	if !config.Valid(cfg.Format) {
		fmt.Fprintf(os.Stderr, "trace: invalid --format %q, must be text or json\n", cfg.Format)
		return subcommands.ExitUsageError
	}
	if !config.Valid(cfg.LogFormat) {
		fmt.Fprintf(os.Stderr, "trace: invalid --log-format %q, must be text or json\n", cfg.LogFormat)
		return subcommands.ExitUsageError
	}

	log := newLogger(cfg.LogFormat, cfg.Debug, os.Stderr)

	tree, err := runTrace(cfg, argv, log)
	if err != nil {
		log.Errorf("tracing %v: %v", argv, err)
		return subcommands.ExitFailure
	}

	if err := writeOutput(tree, cfg.Out, cfg.Format); err != nil {
		log.Errorf("writing output: %v", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
