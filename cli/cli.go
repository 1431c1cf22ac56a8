// Package cli implements the quotecard command-line interface.
//
// Commands:
//   - render: compose an image and a quote into a square PNG, JPEG or PDF
//   - templates: list built-in and user templates
//   - suggest: ask the design-suggestion service for a text style
//   - serve: expose rendering and suggestions over HTTP
//
// All commands support --verbose (-v) for debug logging and --config to
// point at a toml configuration file. The logger and the loaded
// configuration travel through context.Context.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the quotecard CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "quotecard",
		Short:        "quotecard composes quotes onto images",
		Long:         `quotecard renders a quote over a background photo with styled text, quote marks, a separator line and a decorative frame, producing a square image.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			cfg, err := loadConfig(configPath, logger)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("quotecard %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/quotecard/config.toml)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newTemplatesCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newServeCmd())

	return root
}
