// Package config holds the atmtui application settings: logging and the colour theme.
// Kiosk behaviour (PIN, balance, timings) is fixed and is not configurable here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppName is used for config file names, directories and env prefixes.
const AppName = "atmtui"

// DefaultLogFile is where debug logs are written when no log file is configured.
const DefaultLogFile = "atmtui.log"

// Config represents the application configuration structure.
type Config struct {
	// Debug enables debug logging
	Debug bool `toml:"debug" mapstructure:"debug" json:"debug"`
	// LogFile is the file debug logs are written to while the TUI is running
	LogFile string `toml:"log_file" mapstructure:"log_file" json:"log_file"`
	// Colors overrides the theme
	Colors Colors `toml:"colors" mapstructure:"colors" json:"colors"`
}

// Colors are hex ("#ff0000") or ANSI ("21") colour strings. Empty means the theme default.
type Colors struct {
	Primary       string `toml:"primary,omitempty" mapstructure:"primary" json:"primary,omitempty"`
	Error         string `toml:"error,omitempty" mapstructure:"error" json:"error,omitempty"`
	Success       string `toml:"success,omitempty" mapstructure:"success" json:"success,omitempty"`
	Warning       string `toml:"warning,omitempty" mapstructure:"warning" json:"warning,omitempty"`
	Muted         string `toml:"muted,omitempty" mapstructure:"muted" json:"muted,omitempty"`
	Income        string `toml:"income,omitempty" mapstructure:"income" json:"income,omitempty"`
	Expense       string `toml:"expense,omitempty" mapstructure:"expense" json:"expense,omitempty"`
	Border        string `toml:"border,omitempty" mapstructure:"border" json:"border,omitempty"`
	Background    string `toml:"background,omitempty" mapstructure:"background" json:"background,omitempty"`
	Text          string `toml:"text,omitempty" mapstructure:"text" json:"text,omitempty"`
	SecondaryText string `toml:"secondary_text,omitempty" mapstructure:"secondary_text" json:"secondary_text,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{LogFile: DefaultLogFile}
}

// SearchDirs returns the directories searched for atmtui.toml, highest precedence first.
func SearchDirs() []string {
	// Current directory (highest precedence)
	dirs := []string{"."}

	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, AppName))
	}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home, filepath.Join(home, ".config", AppName))
	}

	// System-wide config directory (lowest precedence)
	return append(dirs, filepath.Join("/etc", AppName))
}

// DefaultPath is where `config init` writes when no path is given.
func DefaultPath() string {
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, AppName, AppName+".toml")
	}
	return AppName + ".toml"
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse TOML config file %s: %w", path, err)
	}

	return cfg, nil
}

// ErrExists is returned by Write when the file exists and overwrite is false.
var ErrExists = errors.New("config file already exists")

// Write encodes cfg as TOML to path, creating parent directories as needed.
func Write(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// Rows describes each setting as {setting, value, description} for display.
func Rows(cfg Config) [][]string {
	rows := [][]string{
		{"Debug", strconv.FormatBool(cfg.Debug), "Enable debug logging"},
		{"Log File", displayValue(cfg.LogFile), "File debug logs are written to"},
	}

	colors := []struct {
		name  string
		value string
	}{
		{"Primary", cfg.Colors.Primary},
		{"Error", cfg.Colors.Error},
		{"Success", cfg.Colors.Success},
		{"Warning", cfg.Colors.Warning},
		{"Muted", cfg.Colors.Muted},
		{"Income", cfg.Colors.Income},
		{"Expense", cfg.Colors.Expense},
		{"Border", cfg.Colors.Border},
		{"Background", cfg.Colors.Background},
		{"Text", cfg.Colors.Text},
		{"Secondary Text", cfg.Colors.SecondaryText},
	}
	for _, c := range colors {
		rows = append(rows, []string{"Color: " + c.name, displayValue(c.value), "Theme colour override"})
	}

	return rows
}

func displayValue(value string) string {
	if value == "" {
		return "(default)"
	}
	return value
}
