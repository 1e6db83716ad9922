package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Tree    TreeConfig    `mapstructure:"tree"`
	Copy    CopyConfig    `mapstructure:"copy"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Preview PreviewConfig `mapstructure:"preview"`
	Web     WebConfig     `mapstructure:"web"`
	Log     LogConfig     `mapstructure:"log"`
}

type UIConfig struct {
	Theme           string `mapstructure:"theme"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled"`
	MaxLiteralWidth int    `mapstructure:"max_literal_width"`
}

type TreeConfig struct {
	StartCollapsed bool `mapstructure:"start_collapsed"`
}

type CopyConfig struct {
	PulseMS int `mapstructure:"pulse_ms"`
}

// Pulse returns how long a copied row stays highlighted
func (c CopyConfig) Pulse() time.Duration {
	return time.Duration(c.PulseMS) * time.Millisecond
}

type NotifyConfig struct {
	DurationMS int `mapstructure:"duration_ms"`
}

// Duration returns how long a notification stays on screen
func (c NotifyConfig) Duration() time.Duration {
	return time.Duration(c.DurationMS) * time.Millisecond
}

type EditorConfig struct {
	CharLimit int `mapstructure:"char_limit"`
}

type PreviewConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	UserAgent    string `mapstructure:"user_agent"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:           "default",
			MouseEnabled:    true,
			MaxLiteralWidth: 60,
		},
		Tree: TreeConfig{
			StartCollapsed: false,
		},
		Copy: CopyConfig{
			PulseMS: 150,
		},
		Notify: NotifyConfig{
			DurationMS: 3000,
		},
		Editor: EditorConfig{
			CharLimit: 4096,
		},
		Preview: PreviewConfig{
			Enabled:      true,
			MaxBodyBytes: 1 << 20,
			UserAgent:    "lazyjson-preview/1.0",
		},
		Web: WebConfig{
			Addr: "127.0.0.1:7171",
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.max_literal_width", d.UI.MaxLiteralWidth)
	v.SetDefault("tree.start_collapsed", d.Tree.StartCollapsed)
	v.SetDefault("copy.pulse_ms", d.Copy.PulseMS)
	v.SetDefault("notify.duration_ms", d.Notify.DurationMS)
	v.SetDefault("editor.char_limit", d.Editor.CharLimit)
	v.SetDefault("preview.enabled", d.Preview.Enabled)
	v.SetDefault("preview.max_body_bytes", d.Preview.MaxBodyBytes)
	v.SetDefault("preview.user_agent", d.Preview.UserAgent)
	v.SetDefault("web.addr", d.Web.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Load loads configuration from the standard locations. A non-empty file
// overrides the search and must exist.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in priority order
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "lazyjson"))
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("LAZYJSON")
	v.AutomaticEnv()

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazyjson"), nil
}
