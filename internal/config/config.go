// Package config declares the top-level CLI layout parsed by kong.
package config

import (
	"github.com/GuillaumeMCK/dualshock3/internal/cmd"
)

// LogConfig groups the logging flags shared by every subcommand.
type LogConfig struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"DS3_LOG_LEVEL"`
	File    string `help:"Also write logs to this file; console logs then all go to stderr" env:"DS3_LOG_FILE"`
	RawFile string `help:"Write a hex dump of bridge wire traffic to this file" env:"DS3_LOG_RAW_FILE"`
}

// CLI is the root command structure.
type CLI struct {
	Config string    `help:"Path to a configuration file" env:"DS3_CONFIG"`
	Log    LogConfig `embed:"" prefix:"log."`

	Serve     cmd.Serve         `cmd:"" help:"Run the DS3 gadget bridge"`
	Feed      cmd.Feed          `cmd:"" help:"Feed interactive inputs to a running bridge"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
