package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jamesainslie/fswhy/pkg/fswhy/config"
	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage fswhy configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/fswhy/config.yaml (if set)
  2. ~/.config/fswhy/config.yaml

Environment variables can override config file settings using the FSWHY_ prefix:
  FSWHY_SORT=size
  FSWHY_EXPAND_DEPTH=2
  FSWHY_HISTORY_ENABLED=false`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		if _, statErr := os.Stat(configFile); statErr == nil {
			fmt.Fprintf(out, "Config file: %s\n\n", configFile)
		} else {
			fmt.Fprintln(out, "Config file: (using defaults, no file found)")
			fmt.Fprintln(out)
		}
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	historyPath := cfg.HistoryPath()
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "default_path:              %s\n", cfg.DefaultPath)
	fmt.Fprintf(out, "sort:                      %s\n", cfg.SortMode())
	fmt.Fprintf(out, "expand_depth:              %d\n", cfg.ExpandDepth)
	fmt.Fprintf(out, "exclude:                   %v\n", cfg.Exclude)
	fmt.Fprintf(out, "one_file_system:           %t\n", cfg.OneFileSystem)
	fmt.Fprintf(out, "theme:                     %s\n", valueOrNone(cfg.Theme))
	fmt.Fprintf(out, "history.enabled:           %t\n", cfg.History.Enabled)
	fmt.Fprintf(out, "history.path:              %s\n", historyPath)
	fmt.Fprintf(out, "logging.level:             %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "logging.path:              %s\n", logPath)
	fmt.Fprintf(out, "logging.rotation.max_size: %s\n", cfg.Logging.Rotation.MaxSize)
	fmt.Fprintf(out, "logging.rotation.backups:  %d\n", cfg.Logging.Rotation.MaxBackups)

	components := make([]string, 0, len(cfg.Logging.Components))
	for comp := range cfg.Logging.Components {
		components = append(components, comp)
	}
	sort.Strings(components)
	for _, comp := range components {
		fmt.Fprintf(out, "logging.components.%-7s %s\n", comp+":", cfg.Logging.Components[comp])
	}

	// Show any environment overrides
	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")
	var overrides []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, config.EnvPrefix+"_") {
			overrides = append(overrides, kv)
		}
	}
	sort.Strings(overrides)
	if len(overrides) == 0 {
		fmt.Fprintln(out, "(none)")
	}
	for _, kv := range overrides {
		fmt.Fprintln(out, kv)
	}

	return nil
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if !created {
		printInfo("Config file already exists: %s", path)
		return nil
	}
	printInfo("Created default config file: %s", path)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)

	if _, err := os.Stat(path); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
