// Package config loads modalstate settings.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML
// file, and environment variables. The file lives in a platform-appropriate
// location:
//   - Linux: $XDG_CONFIG_HOME/modalstate/config.yaml or $HOME/.config/modalstate/config.yaml
//   - macOS: $HOME/.config/modalstate/config.yaml
//   - Windows: %LOCALAPPDATA%\modalstate\config.yaml
//
// Every key can be overridden with a MODALSTATE_ variable, dots replaced by
// underscores (MODALSTATE_SLACK_API_URL, MODALSTATE_VIEW_CHECKBOXES). The
// tokens also honour the conventional SLACK_BOT_TOKEN and SLACK_APP_TOKEN.
//
// # Security
//
// Tokens may be stored in the file but are never printed in full; use
// Config.Redacted before showing a configuration to the user.
package config
