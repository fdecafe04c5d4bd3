package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rshep3087/atmtui/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the atmtui configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively write a config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")

		cfg := appConfig
		if err := newConfigForm(&cfg, &path).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("config form failed: %w", err)
		}

		if err := config.Write(path, cfg, force); err != nil {
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			return err
		}

		log.Info("Wrote config file", "path", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputFormat, _ := cmd.Flags().GetString("output")
		if err := validateOutputFormat(outputFormat); err != nil {
			return err
		}

		if outputFormat == jsonOutputFormat {
			return outputJSON(appConfig)
		}

		t := createStyledTable("Setting", "Value", "Description")
		for _, row := range config.Rows(appConfig) {
			t.Row(row...)
		}

		source := "(defaults)"
		if used := viper.ConfigFileUsed(); used != "" {
			source = used
		}

		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n%s\n", source, t)
		return err
	},
}

func init() {
	configInitCmd.Flags().String("path", config.DefaultPath(), "where to write the config file")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configShowCmd.Flags().StringP("output", "o", tableOutputFormat, "output format (table, json)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func newConfigForm(cfg *config.Config, path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Config file").
				Description("Where the config file is written").
				Key("path").
				Value(path).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),

			huh.NewConfirm().
				Title("Debug logging").
				Description("Write debug logs while the kiosk runs").
				Key("debug").
				Value(&cfg.Debug),

			huh.NewInput().
				Title("Log file").
				Description("File debug logs are written to").
				Key("log_file").
				Value(&cfg.LogFile).
				Placeholder(config.DefaultLogFile),
		),
		huh.NewGroup(
			colorInput("Primary color", "Headings and highlighted keys", &cfg.Colors.Primary),
			colorInput("Success color", "Balances and success messages", &cfg.Colors.Success),
			colorInput("Error color", "Error messages", &cfg.Colors.Error),
			colorInput("Border color", "Screen and display borders", &cfg.Colors.Border),
		),
	)
}

func colorInput(title, description string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Description(description + " (hex like #67e8f9, ANSI 0-255, or empty for default)").
		Value(value).
		Validate(validateColor)
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validateColor accepts an empty string, a hex colour or an ANSI colour number.
func validateColor(s string) error {
	if s == "" || hexColor.MatchString(s) {
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return nil
	}

	return fmt.Errorf("%q is not a hex colour or ANSI colour number", s)
}
