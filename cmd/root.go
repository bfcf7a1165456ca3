package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-volley-metrics/internal/config"
	"github.com/pable/go-volley-metrics/internal/logging"
	"github.com/pable/go-volley-metrics/internal/storage"
)

var (
	dbPath   string
	workers  int
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "vbmetrics",
	Short: "Volleyball scouting metrics tool",
	Long:  "Decode DVW scouting files and compute team and player volleyball statistics.",

	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logging.Default().Sync() },
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database (env VBMETRICS_DB)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", cfg.Workers, "parallel file decoders (env VBMETRICS_WORKERS)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (env VBMETRICS_LOG_LEVEL)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup validates the flag-resolved configuration and installs the logger.
func setup(*cobra.Command, []string) error {
	cfg := config.Config{DBPath: dbPath, Workers: workers, LogLevel: logLevel}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.SetDefault(logging.NewConsole(logging.ParseLevel(cfg.LogLevel)))
	return nil
}

// openStore opens the database, creating its directory first.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
