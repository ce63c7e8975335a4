// Package config loads tracetree's flag defaults from an optional TOML
// file, in the same "defaults struct overridden by explicit flags" shape
// runsc's own Config uses, but backed by a real TOML decoder instead of
// reflection over a flag struct.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the defaults for tracetree's four trace flags (--out,
// --format, --debug, --log-format). The built-in defaults come from
// Default (text output to stdout, no debug logging); the zero value
// leaves both formats empty.
type Config struct {
	Out       string `toml:"out"`
	Format    string `toml:"format"`
	Debug     bool   `toml:"debug"`
	LogFormat string `toml:"log_format"`
}

// Default returns the built-in defaults used when no config file is given.
func Default() Config {
	return Config{
		Out:       "",
		Format:    "text",
		Debug:     false,
		LogFormat: "text",
	}
}

// Load reads path as TOML into a copy of base, so fields the file omits
// keep base's values.
func Load(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	cfg := base
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config %q: %w", path, err)
	}
	return cfg, nil
}

// Valid reports whether format is one of the values tracetree accepts for
// both --format and --log-format.
func Valid(format string) bool {
	return format == "text" || format == "json"
}
