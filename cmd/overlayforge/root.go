package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/overlayforge/pkg/logging"
)

var (
	verbosity  int
	colorFlag  string
	configFlag string
)

// NewRootCmd builds the overlayforge command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "overlayforge",
		Short: "Generate projects from multi-template overlays",
		Long: `overlayforge fetches a base template and any number of extend
templates, merges their line-level overlays with conflict detection, and
writes the resulting project to disk.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "Colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default $XDG_CONFIG_HOME/overlayforge/config.toml)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newDiffCmd())

	return rootCmd
}
