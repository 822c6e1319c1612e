// Package main - Entry point for the printquote API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"printquote/api"
	"printquote/core/engine"
	"printquote/db"
	"printquote/internal/config"
	"printquote/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file")
	addr := flag.String("addr", "", "server address (overrides config)")
	flag.Parse()

	if err := run(*cfgPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgPath, addr string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Ledger.Path), 0755); err != nil {
		return err
	}
	conn, err := db.Open(ctx, cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer conn.Close()

	logging.Info("printquote server starting",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("ledger", cfg.Ledger.Path),
	)

	srv := api.NewServer(version,
		engine.New(engine.WithLogger(logging.Named("engine"))),
		api.WithLedger(db.NewLedger(conn)),
		api.WithLogger(logging.Named("api")),
	)
	return srv.Run(ctx, cfg.Server.Addr,
		time.Duration(cfg.Server.ReadTimeoutSeconds)*time.Second,
		time.Duration(cfg.Server.WriteTimeoutSeconds)*time.Second,
	)
}
