package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/modalstate/internal/config"
	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/selection"
	"github.com/muurk/modalstate/internal/socketmode"
	"github.com/muurk/modalstate/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <capture-file>",
	Short: "Decode a Socket Mode capture",
	Long: `Read a capture written by 'serve --capture-dir' and show, for every received
envelope, the event it decodes to and the checkbox selection the host reported.`,
	Example: `  modalstate analyze captures/capture-20250102-030405.jsonl`,
	Args:    cobra.ExactArgs(1),
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := socketmode.ReadCapture(f)
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Capture", map[string]string{
		"File":      args[0],
		"Envelopes": fmt.Sprint(len(entries)),
	})

	counts := map[string]int{}
	decoder := socketmode.Decoder{Command: cfg.Slack.Command}
	for _, r := range decoder.Replay(entries) {
		line := fmt.Sprintf("%s  %-8s %-8s %-15s",
			r.Timestamp.Format("15:04:05.000"), r.Connection, r.Direction, r.Type)

		switch {
		case r.Err != nil:
			counts["errors"]++
			line += " " + ui.ErrorTitleStyle.Render(r.Err.Error())
		case r.Event != nil:
			counts[r.Event.Kind()]++
			line += " " + ui.KeyStyle.Render(r.Event.Kind()) + describeEvent(r.Event)
		}
		printer.Println(line)
	}

	if len(counts) > 0 {
		var parts []string
		for _, kind := range []string{"open_requested", "select_all", "select_none", "option_toggled", "view_submitted", "errors"} {
			if n := counts[kind]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
			}
		}
		printer.Println("\n" + ui.MutedStyle.Render(strings.Join(parts, "  ")))
	}
	return nil
}

// describeEvent summarises the view and reported selection of an event
func describeEvent(ev controller.Event) string {
	var state *selection.ViewState
	var viewID string

	switch e := ev.(type) {
	case controller.SelectAllTriggered:
		viewID, state = e.View.ID, e.State
	case controller.SelectNoneTriggered:
		viewID, state = e.View.ID, e.State
	case controller.OptionToggled:
		viewID, state = e.View.ID, e.State
	case controller.ViewSubmitted:
		return " view=" + e.ViewID
	default:
		return ""
	}

	selected, err := selection.Extract(state, selection.DefaultField)
	if err != nil {
		return fmt.Sprintf(" view=%s selection=<%v>", viewID, err)
	}
	return fmt.Sprintf(" view=%s selection=%s", viewID, selection.Summary(selected))
}
