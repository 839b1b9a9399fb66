// Package commands implements the sitegen command line.
package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// LogLevelEnv overrides the log level chosen by -v.
const LogLevelEnv = "SITEGEN_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"${config_file}" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site once"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild the site whenever content or templates change"`
	Serve   ServeCmd   `cmd:"" help:"Watch and serve the site with live reload"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	History HistoryCmd `cmd:"" help:"List recent builds from the history database"`
}

// Vars are the kong interpolation variables the CLI needs besides version.
func Vars() kong.Vars {
	return kong.Vars{"config_file": config.DefaultFilename}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := parseLogLevel(c.Verbose)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel picks the level from -v, overridden by SITEGEN_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return level
}
