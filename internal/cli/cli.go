// Package cli implements the indexforge command-line interface.
//
// This package provides commands for building index artifacts from a
// declarative recipe registry, visualising the recipe graph, listing the
// registry's contents, and serving a read-only HTTP view of it. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - build: Plan and materialise the requested index artifacts
//   - graph: Render the recipe graph as DOT, SVG, or PNG
//   - list: Show registered artifacts, recipes, and completion state
//   - serve: Serve the registry and plan visualisations over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the [CLI] value and is handed to the toolchain and the registry.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/indexforge/pkg/buildinfo"
)

// appName is the application name used for display and paths.
const appName = "indexforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Indexforge plans and builds variation graph indexes",
		Long:         `Indexforge is a declarative build planner for variation graph indexes: it resolves which recipes can produce the requested indexes from the inputs at hand, runs them in dependency order, and cleans up intermediate files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
