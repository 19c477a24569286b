// Package config loads and validates the ferry configuration: logging,
// pre-registered queues, and label routing rules. Configuration comes
// from a YAML file via viper, overridable with FERRY_* environment
// variables, and can be hot-reloaded by the Watcher.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/okenna/ferry/internal/dispatch"
)

// Config represents the complete ferry configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Queues  QueuesConfig  `mapstructure:"queues"`
	Routes  []RouteConfig `mapstructure:"routes"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// LoggingConfig controls structured logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory for the log file; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// QueuesConfig controls the named-queue registry
type QueuesConfig struct {
	// Preregister lists queues created at startup so their workers exist
	// before any launch targets them. Queues not listed here are still
	// created lazily on first use.
	Preregister []string `mapstructure:"preregister"`
	// DefaultTarget is where unrouted launches deliver: "ui" for the
	// main context, or a queue name (default: "ui")
	DefaultTarget string `mapstructure:"default_target"`
}

// RouteConfig maps a label glob pattern to a delivery target.
// Target "ui" means the main context; any other string names a queue.
type RouteConfig struct {
	Pattern string `mapstructure:"pattern"`
	Target  string `mapstructure:"target"`
}

// TUIConfig controls the dashboard behavior
type TUIConfig struct {
	// MaxRows limits how many finished launches the dashboard keeps
	MaxRows int `mapstructure:"max_rows"`
	// ShowTimestamps renders completion timestamps in the launch table
	ShowTimestamps bool `mapstructure:"show_timestamps"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
		Queues: QueuesConfig{
			Preregister:   []string{"bg"},
			DefaultTarget: "ui",
		},
		Routes: []RouteConfig{},
		TUI: TUIConfig{
			MaxRows:        200,
			ShowTimestamps: true,
		},
	}
}

// SetDefaults registers default values with the global viper instance
func SetDefaults() {
	setDefaultsOn(viper.GetViper())
}

// setDefaultsOn registers default values on a viper instance
func setDefaultsOn(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)

	v.SetDefault("queues.preregister", defaults.Queues.Preregister)
	v.SetDefault("queues.default_target", defaults.Queues.DefaultTarget)

	v.SetDefault("tui.max_rows", defaults.TUI.MaxRows)
	v.SetDefault("tui.show_timestamps", defaults.TUI.ShowTimestamps)
}

// Load reads the configuration from the global viper instance into a
// Config struct and validates it
func Load() (*Config, error) {
	return loadFrom(viper.GetViper())
}

// LoadFile reads and validates the configuration from a specific file,
// independent of the global viper instance. Used by the hot-reload
// watcher so a half-written file cannot corrupt global state.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaultsOn(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return loadFrom(v)
}

// loadFrom unmarshals and validates a viper instance
func loadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// RouterRules converts the configured routes into dispatch router rules,
// in file order.
func (c *Config) RouterRules() []dispatch.Rule {
	rules := make([]dispatch.Rule, len(c.Routes))
	for i, r := range c.Routes {
		rules[i] = dispatch.Rule{Pattern: r.Pattern, Target: r.Target}
	}
	return rules
}

// DefaultTarget returns the configured default delivery target.
func (c *Config) DefaultTarget() dispatch.Target {
	return dispatch.ParseTarget(c.Queues.DefaultTarget)
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ferry")
	}
	// Fall back to ~/.config/ferry
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ferry"
	}
	return filepath.Join(home, ".config", "ferry")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
