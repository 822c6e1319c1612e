// Package cmd provides the CLI commands for printquote.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printquote/core/engine"
	"printquote/db"
	"printquote/internal/config"
	"printquote/internal/logging"
)

// Version is overridden at build time with -ldflags "-X printquote/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "printquote",
	Short: "Quote commercial print jobs",
	Long: `printquote prices digital print jobs: postcards, flyers, brochures,
booklets, letters and envelopes, with optional mailing services.

Every quote is deterministic and passes a QA gate before it is issued.

Examples:
  printquote quote -q 500 -p postcard -s 6x9 -c 4/4
  printquote quote --file jobs.hcl --format json
  printquote batch jobs.xlsx quotes.xlsx
  printquote serve --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.printquote/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// configPath is the --config flag or the per-user default
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".printquote", "config.json")
	}
	return ""
}

func initConfig() {
	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

func newEngine() *engine.Engine {
	return engine.New(engine.WithLogger(logging.Named("engine")))
}

// openLedger opens the configured quote database, creating its directory
func openLedger(ctx context.Context) (*db.Ledger, *sql.DB, error) {
	path := config.Get().Ledger.Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create ledger directory: %w", err)
	}
	conn, err := db.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	logging.Debug("ledger opened", zap.String("path", path))
	return db.NewLedger(conn), conn, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "printquote version %s\n", Version)
	},
}
