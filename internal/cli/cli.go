// Package cli implements the archdiagram command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/buildinfo"
	"github.com/matzehuels/archdiagram/pkg/designs"
	"github.com/matzehuels/archdiagram/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "archdiagram"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without a subcommand, it renders the default design into the working
// directory.
func (c *CLI) RootCommand() *cobra.Command {
	var opts renderOpts

	root := &cobra.Command{
		Use:   appName,
		Short: "archdiagram renders cloud architecture diagrams to PNG",
		Long: `archdiagram draws architecture diagrams of cloud deployments. Without arguments
it renders the built-in "` + designs.DefaultKey + `" design to the working directory.`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetRenderHooks(&logHooks{logger: c.Logger})
			c.Logger.Debug("starting "+appName, "version", buildinfo.String(), "command", cmd.Name())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, designs.DefaultKey, opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template(appName))
	opts.bindOutput(root)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.listCommand())

	return root
}
