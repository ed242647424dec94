package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/modalstate/internal/config"
	"github.com/muurk/modalstate/internal/controller"
	"github.com/muurk/modalstate/internal/logging"
	"github.com/muurk/modalstate/internal/slackapi"
	"github.com/muurk/modalstate/internal/socketmode"
	"github.com/muurk/modalstate/internal/ui"
)

var (
	serveLogLevel   string
	serveCaptureDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Slack over Socket Mode and serve the modal",
	Long: `Connect to a Slack workspace over Socket Mode and answer the slash command
with the checkbox modal.

Requires a bot token (xoxb-) with the commands scope and an app-level token
(xapp-) with connections:write. Both may be set in the config file or through
SLACK_BOT_TOKEN and SLACK_APP_TOKEN.

To capture every envelope for protocol analysis, use --capture-dir.`,
	Example: `  # Serve with tokens from the environment
  SLACK_BOT_TOKEN=xoxb-... SLACK_APP_TOKEN=xapp-... modalstate serve

  # Log every envelope and write them to ./captures
  modalstate serve --log-level debug --capture-dir ./captures`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level (debug, info, warn, error; default: log.level or info)")
	serveCmd.Flags().StringVar(&serveCaptureDir, "capture-dir", "", "Directory to write envelope captures (default: capture.dir)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if cmd.Flags().Changed("log-level") {
		level = serveLogLevel
	}
	if level == "" {
		level = "info"
	}
	if err := logging.Initialize(level); err != nil {
		return err
	}
	defer logging.Sync()

	if err := cfg.RequireTokens(); err != nil {
		return err
	}

	captureDir := cfg.Capture.Dir
	if cmd.Flags().Changed("capture-dir") {
		captureDir = serveCaptureDir
	}
	if captureDir != "" {
		info, err := os.Stat(captureDir)
		if err != nil {
			return fmt.Errorf("cannot access capture directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("capture path is not a directory: %s", captureDir)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := slackapi.NewClientWithURL(cfg.Slack.APIURL, cfg.Slack.BotToken, cfg.Slack.AppToken)

	identity, err := api.AuthTest(ctx)
	if err != nil {
		return fmt.Errorf("bot token check failed: %w", err)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	params := map[string]string{
		"Team":       identity.Team,
		"Bot user":   identity.User,
		"Command":    cfg.Slack.Command,
		"Checkboxes": fmt.Sprint(cfg.View.Checkboxes),
	}
	if captureDir != "" {
		params["Capture"] = captureDir
	}
	printer.PrintHeader("modalstate", params)

	logging.Info("Starting Socket Mode client",
		zap.String("team", identity.Team),
		zap.String("user", identity.User),
		zap.String("command", cfg.Slack.Command),
	)

	ctrl := controller.New(api, controller.Options{ControlCount: cfg.View.Checkboxes})
	client := socketmode.New(api, ctrl, socketmode.Config{
		Command:    cfg.Slack.Command,
		CaptureDir: captureDir,
	})

	if err := client.Run(ctx); err != nil {
		return err
	}
	logging.Info("Shut down")
	return nil
}
