package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/buildreloc/internal/config"
)

// Global carries state shared by all subcommands.
type Global struct {
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: buildreloc.yaml in --dir when present)" type:"path" env:"BUILDRELOC_CONFIG"`
	Dir     string           `short:"C" help:"Directory to look for the configuration or Gradle project in" default:"." type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Relocate RelocateCmd `cmd:"" default:"1" help:"Relocate the root and subproject output directories and record the layout"`
	Clean    CleanCmd    `cmd:"" help:"Delete the relocated root output directory"`
	Layout   LayoutCmd   `cmd:"" help:"Print the relocated layout without recording it"`
	History  HistoryCmd  `cmd:"" help:"Show recorded relocations and cleanups"`
	Watch    WatchCmd    `cmd:"" help:"Re-relocate on settings changes and run scheduled cleans"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`

	// levelFromEnv is set when BUILDRELOC_LOG_LEVEL chose the level.
	levelFromEnv bool
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.LogLevelInfo
	if raw := os.Getenv(config.EnvLogLevel); raw != "" {
		level = config.NormalizeLogLevel(raw)
		c.levelFromEnv = true
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}
	setupLogging(level, config.LogFormatText)
	return nil
}

// applyConfigLogging switches to the configured level and format unless the
// command line or environment already chose a level.
func (c *CLI) applyConfigLogging(cfg config.LoggingConfig) {
	level := cfg.Level
	if c.Verbose {
		level = config.LogLevelDebug
	} else if c.levelFromEnv {
		level = config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel))
	}
	setupLogging(level, cfg.Format)
}

func setupLogging(level config.LogLevel, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads the configuration selected by the global flags.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.Config, c.Dir)
	if err != nil {
		return nil, err
	}
	c.applyConfigLogging(cfg.Logging)
	return cfg, nil
}
