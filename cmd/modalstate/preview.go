package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/modalstate/internal/config"
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/ui"
	"github.com/muurk/modalstate/internal/view"
)

var (
	previewCheckboxes int
	previewSelectAll  bool
	previewSelected   []string
	previewJSON       bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the modal for a given state",
	Long: `Render the modal exactly as it would be sent to the host and print it,
either drawn in the terminal or as the Block Kit JSON payload.

--selected sets the option values reported in the summary line, the way the
host would report them back after a button press.`,
	Example: `  # Draw the initial view
  modalstate preview

  # The view sent after pressing Select All with options 0 and 2 checked
  modalstate preview --select-all --selected 0,2

  # Block Kit JSON for five checkboxes
  modalstate preview --checkboxes 5 --json`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&previewCheckboxes, "checkboxes", 0, "Number of checkboxes (default: view.checkboxes)")
	previewCmd.Flags().BoolVar(&previewSelectAll, "select-all", false, "Render with every option pre-checked")
	previewCmd.Flags().StringSliceVar(&previewSelected, "selected", nil, "Option values for the summary line")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print the Block Kit JSON instead of drawing the modal")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	count := cfg.View.Checkboxes
	if cmd.Flags().Changed("checkboxes") {
		count = previewCheckboxes
	}

	summary := ""
	if cmd.Flags().Changed("selected") {
		summary = selection.Summary(selection.State(previewSelected))
	}

	desc, err := view.Render(count, previewSelectAll, summary)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if previewJSON {
		data, err := desc.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	printer := ui.NewPrinter(out)
	styled := ui.IsTerminal()
	md, err := ui.NewMarkdown(printer.Width()-4, styled)
	if err != nil {
		md = nil
	}
	printer.Println(ui.RenderModal(desc, ui.ModalOptions{
		Width:    printer.Width(),
		ShowHint: true,
		Markdown: md,
	}))
	return nil
}
