package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/muurk/modalstate/internal/modalerr"
	"github.com/muurk/modalstate/internal/socketmode"
	"github.com/muurk/modalstate/internal/urls"
	"github.com/muurk/modalstate/internal/view"
)

const (
	appName    = "modalstate"
	configFile = "config.yaml"
	envPrefix  = "MODALSTATE"

	// PathEnv overrides the config file location
	PathEnv = "MODALSTATE_CONFIG"
)

// Config holds application configuration.
type Config struct {
	Slack   SlackConfig   `mapstructure:"slack" yaml:"slack"`
	View    ViewConfig    `mapstructure:"view" yaml:"view"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
}

// SlackConfig holds host credentials and endpoints.
type SlackConfig struct {
	BotToken string `mapstructure:"bot_token" yaml:"bot_token"`
	AppToken string `mapstructure:"app_token" yaml:"app_token"`
	APIURL   string `mapstructure:"api_url" yaml:"api_url"`
	Command  string `mapstructure:"command" yaml:"command"`
}

// ViewConfig holds modal settings.
type ViewConfig struct {
	Checkboxes int `mapstructure:"checkboxes" yaml:"checkboxes"`
}

// LogConfig holds logging settings. An empty level disables logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// CaptureConfig holds envelope capture settings. An empty dir disables capture.
type CaptureConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Slack: SlackConfig{
			APIURL:  urls.SlackAPI,
			Command: socketmode.DefaultCommand,
		},
		View: ViewConfig{Checkboxes: view.DefaultControlCount},
	}
}

// GetConfigDir returns the OS-appropriate configuration directory for the application.
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName), nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(profile, "AppData", "Local", appName), nil

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appName), nil
	}
}

// GetConfigPath returns the config file path, honouring MODALSTATE_CONFIG.
func GetConfigPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads configuration from path, or from the default location when
// path is empty. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	v := viper.New()
	def := Default()
	v.SetDefault("slack.bot_token", "")
	v.SetDefault("slack.app_token", "")
	v.SetDefault("slack.api_url", def.Slack.APIURL)
	v.SetDefault("slack.command", def.Slack.Command)
	v.SetDefault("view.checkboxes", def.View.Checkboxes)
	v.SetDefault("log.level", "")
	v.SetDefault("capture.dir", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("slack.bot_token", envPrefix+"_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN"); err != nil {
		return Config{}, err
	}
	if err := v.BindEnv("slack.app_token", envPrefix+"_SLACK_APP_TOKEN", "SLACK_APP_TOKEN"); err != nil {
		return Config{}, err
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate checks settings every command relies on
func (c Config) Validate() error {
	if c.View.Checkboxes <= 0 {
		return modalerr.NewInvalidArgument("view.checkboxes must be positive, got %d", c.View.Checkboxes)
	}
	if !strings.HasPrefix(c.Slack.Command, "/") {
		return modalerr.NewInvalidArgument("slack.command must start with '/', got %q", c.Slack.Command)
	}
	return nil
}

// RequireTokens checks the credentials needed to connect to the host
func (c Config) RequireTokens() error {
	if c.Slack.BotToken == "" {
		return modalerr.NewInvalidArgument("bot token not set (slack.bot_token or SLACK_BOT_TOKEN)")
	}
	if c.Slack.AppToken == "" {
		return modalerr.NewInvalidArgument("app token not set (slack.app_token or SLACK_APP_TOKEN)")
	}
	if !strings.HasPrefix(c.Slack.AppToken, "xapp-") {
		return modalerr.NewInvalidArgument("app token must be an app-level token (xapp-...), see %s", urls.TokenTypes)
	}
	return nil
}

// Redacted returns a copy with tokens masked
func (c Config) Redacted() Config {
	c.Slack.BotToken = redact(c.Slack.BotToken)
	c.Slack.AppToken = redact(c.Slack.AppToken)
	return c
}

func redact(token string) string {
	if token == "" {
		return ""
	}
	if i := strings.IndexByte(token, '-'); i > 0 && i < 5 {
		return token[:i+1] + "****"
	}
	return "****"
}

// Marshal encodes the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to path, or to the default
// location when path is empty. An existing file is only replaced when force
// is set. It returns the path written.
func WriteDefault(path string, force bool) (string, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Default().Marshal()
	if err != nil {
		return "", err
	}
	header := []byte(`# modalstate configuration
#
# Tokens can be left empty here and supplied through SLACK_BOT_TOKEN and
# SLACK_APP_TOKEN instead.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save config file: %w", err)
	}
	return path, nil
}
