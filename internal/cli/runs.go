// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/logger"
	"github.com/solidforge/solidforge/internal/store"
)

// runsCommand lists recent pipeline runs from the history store.
func runsCommand(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	limit := fs.Int("limit", 20, "maximum number of runs to show")
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

	runs, err := st.ListRuns(*limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-38s %-16s %-11s %s", "RUN", "SHAPE", "STATUS", "STARTED")))
	for _, r := range runs {
		fmt.Fprintf(&b, "%-38s %-16s %-11s %s\n",
			r.ID, r.ShapeName, statusStyled(r.Status), r.StartedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Print(b.String())
	return nil
}
