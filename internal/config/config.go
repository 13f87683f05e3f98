// Package config provides configuration management for the fund notifier.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	vgerrors "vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/models"
)

// Renderer engines.
const (
	EngineChrome = "chrome"
	EngineHTTP   = "http"
)

// Notification levels.
const (
	LevelAll         = "all"
	LevelUpdatesOnly = "updates_only"
	LevelErrorsOnly  = "errors_only"
)

// DefaultFundsFile is read from the working directory when no other path is
// configured.
const DefaultFundsFile = "funds_config.yml"

// UnknownFundName is used for fund entries without a name.
const UnknownFundName = "Unknown Fund"

// Config holds all application configuration.
type Config struct {
	Renderer      RendererConfig     `mapstructure:"renderer"`
	Run           RunConfig          `mapstructure:"run"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// RendererConfig holds page renderer configuration.
type RendererConfig struct {
	Engine           string        `mapstructure:"engine"` // chrome, http
	Headless         bool          `mapstructure:"headless"`
	WaitTimeout      time.Duration `mapstructure:"wait_timeout"`
	SettleDelay      time.Duration `mapstructure:"settle_delay"`
	PanelSettleDelay time.Duration `mapstructure:"panel_settle_delay"`
	MinContentLength int           `mapstructure:"min_content_length"`
	PanelSelector    string        `mapstructure:"panel_selector"`
	UserAgent        string        `mapstructure:"user_agent"`
	WindowWidth      int           `mapstructure:"window_width"`
	WindowHeight     int           `mapstructure:"window_height"`
}

// RunConfig holds run driver configuration.
type RunConfig struct {
	FundsFile string        `mapstructure:"funds_file"`
	Pacing    time.Duration `mapstructure:"pacing"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Level    string         `mapstructure:"level"` // all, updates_only, errors_only
	Ntfy     NtfyConfig     `mapstructure:"ntfy"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Terminal TerminalConfig `mapstructure:"terminal"`
}

// NtfyConfig holds ntfy push notification configuration.
type NtfyConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	Priority      string        `mapstructure:"priority"`
	Tags          string        `mapstructure:"tags"`
	ErrorPriority string        `mapstructure:"error_priority"`
	ErrorTags     string        `mapstructure:"error_tags"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// WebhookConfig holds webhook notification configuration. The webhook
// receives the verbose message body as {"text": ...}.
type WebhookConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TerminalConfig controls echoing notifications to the console.
type TerminalConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Bell    bool `mapstructure:"bell"`
	Verbose bool `mapstructure:"verbose"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/vanguard-notifier"
	}
	return filepath.Join(home, ".config", "vanguard-notifier")
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("renderer.engine", EngineChrome)
	v.SetDefault("renderer.headless", true)
	v.SetDefault("renderer.wait_timeout", 30*time.Second)
	v.SetDefault("renderer.settle_delay", 3*time.Second)
	v.SetDefault("renderer.panel_settle_delay", 2*time.Second)
	v.SetDefault("renderer.min_content_length", 10000)
	v.SetDefault("renderer.panel_selector", `[role="tabpanel"]`)
	v.SetDefault("renderer.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("renderer.window_width", 1920)
	v.SetDefault("renderer.window_height", 1080)

	v.SetDefault("run.funds_file", DefaultFundsFile)
	v.SetDefault("run.pacing", 3*time.Second)

	v.SetDefault("notifications.level", LevelAll)
	v.SetDefault("notifications.ntfy.enabled", true)
	v.SetDefault("notifications.ntfy.url", "http://192.168.0.2:6244/vanguard_not")
	v.SetDefault("notifications.ntfy.priority", "default")
	v.SetDefault("notifications.ntfy.tags", "chart_with_upwards_trend,heavy_dollar_sign")
	v.SetDefault("notifications.ntfy.error_priority", "high")
	v.SetDefault("notifications.ntfy.error_tags", "rotating_light,exclamation")
	v.SetDefault("notifications.ntfy.timeout", 10*time.Second)
	v.SetDefault("notifications.webhook.enabled", false)
	v.SetDefault("notifications.webhook.url", "")
	v.SetDefault("notifications.webhook.timeout", 10*time.Second)
	v.SetDefault("notifications.terminal.enabled", false)
	v.SetDefault("notifications.terminal.bell", false)
	v.SetDefault("notifications.terminal.verbose", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "notifier.log"))
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v, DefaultConfigDir())
	cfg := &Config{}
	// Defaults only; decoding cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by a commented template and defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NTFY_URL"); v != "" {
		cfg.Notifications.Ntfy.URL = v
	}
	if v := os.Getenv("NTFY_PRIORITY"); v != "" {
		cfg.Notifications.Ntfy.Priority = v
	}
	if v := os.Getenv("NTFY_TAGS"); v != "" {
		cfg.Notifications.Ntfy.Tags = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Notifications.Webhook.URL = v
		cfg.Notifications.Webhook.Enabled = true
	}
	if v := os.Getenv("VG_FUNDS_FILE"); v != "" {
		cfg.Run.FundsFile = v
	}
}

// LoadDotEnv loads KEY=VALUE pairs from an env file into the process
// environment. Variables already set are left untouched. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Renderer.Engine {
	case EngineChrome, EngineHTTP:
	default:
		return vgerrors.NewValidationError("renderer.engine", c.Renderer.Engine, "must be 'chrome' or 'http'")
	}
	if c.Renderer.WaitTimeout <= 0 {
		return vgerrors.NewValidationError("renderer.wait_timeout", c.Renderer.WaitTimeout, "must be positive")
	}
	if c.Renderer.SettleDelay < 0 || c.Renderer.PanelSettleDelay < 0 {
		return vgerrors.NewValidationError("renderer.settle_delay", c.Renderer.SettleDelay, "must not be negative")
	}
	if c.Run.Pacing < 0 {
		return vgerrors.NewValidationError("run.pacing", c.Run.Pacing, "must not be negative")
	}

	switch c.Notifications.Level {
	case LevelAll, LevelUpdatesOnly, LevelErrorsOnly:
	default:
		return vgerrors.NewValidationError("notifications.level", c.Notifications.Level,
			"must be 'all', 'updates_only' or 'errors_only'")
	}

	if c.Notifications.Ntfy.Enabled {
		if err := validateURL("notifications.ntfy.url", c.Notifications.Ntfy.URL); err != nil {
			return err
		}
	}
	if c.Notifications.Webhook.Enabled {
		if err := validateURL("notifications.webhook.url", c.Notifications.Webhook.URL); err != nil {
			return err
		}
	}

	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return vgerrors.NewValidationError(field, raw, "must be an absolute URL")
	}
	return nil
}

// LoadFunds reads the ordered fund list from a YAML file with a top-level
// "funds" key. A missing or unparseable file yields an empty list along with
// the error that caused it, so callers can report it and carry on.
func LoadFunds(path string) ([]models.Fund, error) {
	if path == "" {
		path = DefaultFundsFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return []models.Fund{}, fmt.Errorf("reading funds file %s: %w", path, err)
	}

	var funds []models.Fund
	if err := v.UnmarshalKey("funds", &funds); err != nil {
		return []models.Fund{}, fmt.Errorf("decoding funds file %s: %w", path, err)
	}

	for i := range funds {
		funds[i].Name = strings.TrimSpace(funds[i].Name)
		funds[i].URL = strings.TrimSpace(funds[i].URL)
		if funds[i].Name == "" {
			funds[i].Name = UnknownFundName
		}
	}
	if funds == nil {
		funds = []models.Fund{}
	}
	return funds, nil
}
