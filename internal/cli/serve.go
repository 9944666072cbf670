// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/logger"
	"github.com/solidforge/solidforge/internal/server"
	"github.com/solidforge/solidforge/internal/store"
)

// serveCommand starts the standalone observer API over the run history.
func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		return err
	}
	if err := logger.Initialize(&cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.CloseGlobal()

	st, err := store.NewStore(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(&cfg.Server, nil, st)
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	fmt.Printf("Observer API on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	return srv.Run(ctx)
}
