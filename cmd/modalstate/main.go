// Modalstate demonstrates the view-state precedence rules of Slack modals.
//
// It serves a /modal-test slash command over Socket Mode that opens a modal
// with a checkbox group and Select All / Select None buttons. The buttons
// re-render the view with initial_options, which the host honours only until
// the user toggles a checkbox directly. The same flow can be explored offline
// against a built-in host simulator.
//
// Usage:
//
//	modalstate [command] [flags]
//
// See 'modalstate --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/modalstate/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath is shared by every command that reads configuration
var configPath string

var rootCmd = &cobra.Command{
	Use:   "modalstate",
	Short: "Slack modal view-state demonstrator",
	Long: `A Slack app that shows how a modal's checkbox state interacts with
initial_options when the view is re-rendered.

Run 'modalstate serve' to connect to a workspace over Socket Mode, or
'modalstate simulate' to try the same flow against a local host simulator.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/modalstate/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "modalstate %s\n", version.Full())
	},
}
