package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rshep3087/atmtui/config"
)

// Global variables for configuration.
var (
	cfgFile   string
	debug     bool
	logFile   string
	appConfig = config.Default()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "atmtui",
	Short: "A terminal ATM kiosk simulator",
	Long: `atmtui simulates a single-user ATM kiosk in the terminal.
Sign in with the PIN, then check the balance, withdraw, deposit and review recent transactions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := checkConfigFile(cfgFile); err != nil {
			return err
		}

		cfg, err := loadAppConfig()
		if err != nil {
			return err
		}
		appConfig = cfg

		// Setup logging
		log.SetLevel(log.InfoLevel)
		if appConfig.Debug {
			log.SetLevel(log.DebugLevel)
		}

		return nil
	},
	RunE: func(c *cobra.Command, _ []string) error {
		// Start TUI when no subcommands are provided
		w, err := openLogFile(appConfig)
		if err != nil {
			return err
		}
		defer w.Close()

		logger := newLogger(appConfig, w)
		log.SetDefault(logger)

		return runKiosk(c.Context(), appConfig, logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./atmtui.toml or $XDG_CONFIG_HOME/atmtui/atmtui.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultLogFile, "file debug logs are written to while the TUI runs")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	viper.SetDefault("log_file", config.DefaultLogFile)

	// Bind environment variables: ATMTUI_DEBUG, ATMTUI_LOG_FILE, ATMTUI_COLORS_PRIMARY, ...
	viper.SetEnvPrefix(strings.ToUpper(config.AppName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Add subcommands
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(config.AppName)
		viper.SetConfigType("toml")

		// Search config in multiple locations (in order of precedence)
		for _, dir := range config.SearchDirs() {
			viper.AddConfigPath(dir)
		}
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		log.Debug("Config file not found or error reading", "error", err)
		return
	}

	log.Debug("Using config file", "file", viper.ConfigFileUsed())
}

// checkConfigFile fails on a --config file that is missing or not valid TOML.
// viper only logs read errors, so a typo in the path would otherwise be ignored.
func checkConfigFile(path string) error {
	if path == "" {
		return nil
	}

	_, err := config.Load(path)
	return err
}

// loadAppConfig merges defaults, the config file, env and flags.
// Colour keys are bound explicitly so env overrides work without a file.
func loadAppConfig() (config.Config, error) {
	for _, k := range colorKeys {
		_ = viper.BindEnv("colors." + k)
	}

	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return cfg, nil
}

var colorKeys = []string{
	"primary", "error", "success", "warning", "muted", "income",
	"expense", "border", "background", "text", "secondary_text",
}

// Utility functions for output formatting.
func outputJSON(data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Println(string(jsonData))
	return nil
}

func validateOutputFormat(format string) error {
	switch format {
	case tableOutputFormat, jsonOutputFormat:
		return nil
	}
	return fmt.Errorf("invalid output format %q: must be %q or %q", format, tableOutputFormat, jsonOutputFormat)
}

func createStyledTable(headers ...string) *table.Table {
	var (
		cyan      = lipgloss.Color("51")
		gray      = lipgloss.Color("245")
		lightGray = lipgloss.Color("241")

		headerStyle  = lipgloss.NewStyle().Foreground(cyan).Bold(true).Align(lipgloss.Center)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1)
		oddRowStyle  = cellStyle.Foreground(gray)
		evenRowStyle = cellStyle.Foreground(lightGray)
	)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(cyan)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers(headers...)
}
