package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/fswhy/pkg/fswhy/config"
	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// configErr holds a config file read failure from initConfig, which
	// cannot return errors itself.
	configErr error

	rootCmd = &cobra.Command{
		Use:   "fswhy [path]",
		Short: "Explore where disk space goes",
		Long: `fswhy scans a directory tree, sums file sizes into every directory,
and lets you expand and collapse directories to see what takes up space.

By default, fswhy launches an interactive TUI. Type a row number and press
Enter to toggle that directory, or move the cursor and press Space.
Use --no-interactive or --output for non-interactive output.

Examples:
  fswhy                      # Explore the current directory
  fswhy ~/Downloads          # Explore a specific directory
  fswhy -S size /var         # Largest entries first
  fswhy -n -D 2 .            # Print two levels and exit
  fswhy -o json .            # JSON output
  fswhy history              # Previous scans and how sizes changed
  fswhy config show          # Show configuration`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runScan,
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/fswhy/config.yaml)")
	rootCmd.PersistentFlags().StringP("sort", "S", "", "initial sort order: name or size")
	rootCmd.PersistentFlags().IntP("depth", "D", config.DefaultExpandDepth, "directory levels expanded on start (1 = root only)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude glob patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolP("one-file-system", "x", false, "don't cross filesystem boundaries")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable TUI, print the tree and exit")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: pretty, plain, json, yaml")
	rootCmd.PersistentFlags().Bool("no-history", false, "don't record this scan in the history")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("sort", rootCmd.PersistentFlags().Lookup("sort"))
	_ = viper.BindPFlag("expand_depth", rootCmd.PersistentFlags().Lookup("depth"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("one_file_system", rootCmd.PersistentFlags().Lookup("one-file-system"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("no_history", rootCmd.PersistentFlags().Lookup("no-history"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()
	config.Setup(v, cfgFile)
	configErr = config.Read(v)
}

// loadConfig decodes the merged flags, environment and config file.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return config.FromViper(viper.GetViper())
}

// initLogging starts file logging. In TUI mode entries are also kept for
// the log panel; otherwise --verbose mirrors them to stderr.
func initLogging(cfg *config.Config, tuiMode bool) error {
	lc := cfg.LoggingConfig()
	lc.TUIMode = tuiMode
	if !tuiMode && getVerbose() && !getQuiet() {
		lc.ConsoleLevel = "debug"
	}
	if err := logging.Init(lc); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
