// Package cmd - serve command
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"printquote/api"
	"printquote/internal/config"
	"printquote/internal/logging"
)

var (
	serveAddr     string
	serveNoLedger bool
)

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quoting API over HTTP",
	Long: `Serve the quoting API:

  POST /quotes           price a job (?issue=true records it)
  GET  /quotes           list issued quotes (?limit=N, ?input_hash=H)
  GET  /quotes/{id}      fetch an issued quote
  GET  /catalog          equipment, stocks and markup tables
  GET  /health           liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveNoLedger, "no-ledger", false, "serve without the issued-quote ledger")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Get().Server
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	opts := []api.Option{api.WithLogger(logging.Named("api"))}
	if !serveNoLedger {
		ledger, conn, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()
		opts = append(opts, api.WithLedger(ledger))
	}

	srv := api.NewServer(Version, newEngine(), opts...)
	return srv.Run(ctx, cfg.Addr,
		time.Duration(cfg.ReadTimeoutSeconds)*time.Second,
		time.Duration(cfg.WriteTimeoutSeconds)*time.Second,
	)
}
