package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jamesainslie/fswhy/cmd/fswhy/tui"
	"github.com/jamesainslie/fswhy/pkg/fswhy/config"
	"github.com/jamesainslie/fswhy/pkg/fswhy/history"
	"github.com/jamesainslie/fswhy/pkg/fswhy/logging"
	"github.com/jamesainslie/fswhy/pkg/fswhy/output"
	"github.com/jamesainslie/fswhy/pkg/fswhy/tree"
	"github.com/jamesainslie/fswhy/pkg/fswhy/view"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = logging.Get("cli")

// runScan is the main scan command handler.
func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scanPath := cfg.DefaultPath
	if len(args) > 0 {
		scanPath = args[0]
	}
	absPath, err := resolveScanPath(scanPath)
	if err != nil {
		return err
	}

	// An explicit non-TUI format implies non-interactive mode
	outFormat := viper.GetString("output")
	noInteractive := viper.GetBool("no_interactive")
	if outFormat != "" && outFormat != "pretty" {
		noInteractive = true
	}

	if noInteractive {
		if outFormat == "" {
			outFormat = "pretty"
		}
		return runNonInteractiveScan(cmd.OutOrStdout(), cfg, absPath, outFormat)
	}
	return runInteractiveTUI(cfg, absPath)
}

// resolveScanPath expands ~ and makes path absolute. Whether the path
// exists is left to the scan, which reports it as a root error.
func resolveScanPath(path string) (string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}

// runInteractiveTUI runs the TUI application.
func runInteractiveTUI(cfg *config.Config, root string) error {
	// Console output would corrupt the alt screen; entries go to the log panel
	if err := initLogging(cfg, true); err != nil {
		return err
	}
	defer logging.Close()

	theme, source := tui.ResolveTheme(cfg.Theme)
	if source != "" {
		logger.Info("theme loaded", "path", source)
	}

	opts := tui.Options{
		Root:          root,
		Exclude:       cfg.Exclude,
		OneFileSystem: cfg.OneFileSystem,
		SortMode:      cfg.SortMode(),
		ExpandDepth:   cfg.ExpandDepth,
		Theme:         theme,
	}
	if historyEnabled(cfg) {
		opts.OnScanComplete = func(t *tree.Tree) {
			if err := recordScan(cfg.HistoryPath(), t); err != nil {
				logger.Warn("scan not recorded", "root", root, "error", err)
			}
		}
	}

	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return nil
}

// runNonInteractiveScan scans, prints the projection expanded to the
// configured depth, and exits.
func runNonInteractiveScan(w io.Writer, cfg *config.Config, root, format string) error {
	if _, err := output.Get(format); err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}

	if err := initLogging(cfg, false); err != nil {
		return err
	}
	defer logging.Close()

	// Setup context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printVerbose("Scanning %s (exclude=%v, one-file-system=%t)", root, cfg.Exclude, cfg.OneFileSystem)

	t, err := tree.Build(ctx, root, tree.Options{
		Exclude:       cfg.Exclude,
		OneFileSystem: cfg.OneFileSystem,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Scan cancelled")
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	if historyEnabled(cfg) {
		if err := recordScan(cfg.HistoryPath(), t); err != nil {
			printVerbose("Scan not recorded in history: %v", err)
		}
	}

	s := view.New(t,
		view.WithSortMode(cfg.SortMode()),
		view.WithExpandDepth(cfg.ExpandDepth),
	)
	return output.Write(w, format, output.NewResult(s))
}

// historyEnabled reports whether completed scans should be recorded.
func historyEnabled(cfg *config.Config) bool {
	return cfg.History.Enabled && !viper.GetBool("no_history")
}

// recordScan stores a history record for t in the store at path.
func recordScan(path string, t *tree.Tree) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := history.NewRecord(t.Node(t.Root()).Path, t.Stats(), time.Now())
	return store.Add(rec)
}
