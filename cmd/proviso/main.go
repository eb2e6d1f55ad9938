// Command proviso is the CLI entry point for the ProViso DSL/runtime:
// parse source, evaluate against financial data, render prose, diff
// revisions, browse a deal's status, or serve the closing registry.
//
// File index, mirroring the teacher's cmd_*.go split:
//   - main.go        - entry point, rootCmd, global flags, init()
//   - cmd_parse.go   - parseCmd
//   - cmd_eval.go    - evalCmd
//   - cmd_doc.go     - docCmd, redlineCmd
//   - cmd_tui.go     - tuiCmd
//   - cmd_store.go   - serveStoreCmd
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wch1125/proviso/internal/config"
	"github.com/wch1125/proviso/internal/logging"
)

var (
	verbose    bool
	workspace  string
	configPath string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "proviso",
	Short: "ProViso - a DSL and runtime for executable credit agreements",
	Long: `ProViso parses a small declarative language describing a credit
agreement's covenants, baskets, phases, milestones, reserves, and cash
waterfalls, evaluates it against financial data, and renders it back to
a legal-document outline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if workspace != "" {
			cfg.Workspace = workspace
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		log, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		ws, absErr := filepath.Abs(cfg.Workspace)
		if absErr != nil {
			ws = cfg.Workspace
		}
		if err := logging.Initialize(ws, cfg.Logging.DebugMode, cfg.Logging.Categories, cfg.Logging.Level, cfg.Logging.JSONFormat); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "proviso.yaml", "path to a proviso.yaml config file")

	rootCmd.AddCommand(parseCmd, evalCmd, docCmd, redlineCmd, tuiCmd, serveStoreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
