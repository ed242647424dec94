package main

import (
	"github.com/spf13/cobra"

	"github.com/muurk/modalstate/internal/config"
	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/simulator"
	"github.com/muurk/modalstate/internal/tui"
	"github.com/muurk/modalstate/internal/ui"
)

var simulateCheckboxes int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Explore the modal against a local host simulator",
	Long: `Run the modal flow in the terminal against a simulated host that applies
the same precedence rules as Slack: initial_options replace the checkbox
selection until the user toggles a checkbox directly, and are ignored after.

No tokens or network access are needed.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateCheckboxes, "checkboxes", 0, "Number of checkboxes (default: view.checkboxes)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	count := cfg.View.Checkboxes
	if cmd.Flags().Changed("checkboxes") {
		count = simulateCheckboxes
	}

	if count <= 0 {
		return modalerr.NewInvalidArgument("--checkboxes must be positive, got %d", count)
	}

	host := simulator.NewHost(selection.DefaultField)
	ctrl := controller.New(host, controller.Options{ControlCount: count})

	width := ui.GetTerminalWidth()
	md, err := ui.NewMarkdown(width-4, ui.IsTerminal())
	if err != nil {
		md = nil
	}

	return tui.Run(tui.New(host, ctrl, md))
}
