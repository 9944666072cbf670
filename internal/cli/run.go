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
	"time"

	"github.com/solidforge/solidforge/internal/agents"
	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/crew"
	"github.com/solidforge/solidforge/internal/llm"
	"github.com/solidforge/solidforge/internal/logger"
	"github.com/solidforge/solidforge/internal/protocol"
	"github.com/solidforge/solidforge/internal/server"
	"github.com/solidforge/solidforge/internal/store"
	"github.com/solidforge/solidforge/internal/tools"
)

// runCommand executes the full pipeline for one shape.
func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	shape := fs.String("shape", "", "SHACL shape name to process (required)")
	configPath := fs.String("config", "", "path to config file")
	autoApprove := fs.Bool("auto-approve", false, "skip human approval gates")
	serve := fs.Bool("serve", false, "expose the observer API during the run")
	noStore := fs.Bool("no-store", false, "disable run-history persistence")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *shape == "" {
		fs.Usage()
		return fmt.Errorf("--shape is required")
	}

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		return err
	}
	if err := logger.Initialize(&cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.CloseGlobal()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, st, events, err := buildCrew(cfg, *shape, *autoApprove, *noStore, *serve)
	if err != nil {
		return err
	}

	if *serve {
		srv := server.New(&cfg.Server, events, st)
		go func() {
			if err := srv.Run(ctx); err != nil {
				log := logger.GetAPILogger()
				log.Error().Err(err).Msg("Observer API stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	run, runErr := c.Kickoff(ctx)
	printRunSummary(run)
	if runErr != nil {
		return fmt.Errorf("pipeline failed: %w", runErr)
	}
	return nil
}

// buildCrew assembles agents, tasks, tools, backend, approver, and
// persistence from config for one shape.
func buildCrew(cfg *config.AppConfig, shape string, autoApprove, noStore, serve bool) (*crew.Crew, *store.Store, chan protocol.Event, error) {
	loader := agents.NewLoader(&cfg.Agents)
	registry := tools.NewRegistry(cfg)

	vars := map[string]string{
		"shape_name":  shape,
		"shapes_path": cfg.Repos.ShapesPath,
		"object_path": cfg.Repos.ObjectPath,
		"work_dir":    cfg.Pipeline.WorkDir,
	}

	var (
		crewAgents []*crew.Agent
		crewTasks  []*crew.TaskSpec
	)
	for _, id := range cfg.Pipeline.Tasks {
		def, err := loader.LoadResolved(id, vars)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load agent %s: %w", id, err)
		}

		toolIDs, err := registry.Resolve(def.Tools)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("agent %s: %w", id, err)
		}

		model := def.Model
		if model == "" {
			model = cfg.LLM.ModelFor(id)
		}
		backend := llm.NewGeminiBackend(&cfg.LLM, model)

		crewAgents = append(crewAgents, crew.NewAgent(crew.AgentSpec{
			ID:        id,
			Role:      def.Role,
			Goal:      def.Goal,
			Backstory: def.Backstory,
			Tools:     toolIDs,
		}, backend, registry, cfg.Pipeline.MaxToolSteps))

		crewTasks = append(crewTasks, &crew.TaskSpec{
			ID:               id,
			Name:             def.Role,
			Description:      def.TaskDescription,
			ExpectedOutput:   def.ExpectedOutput,
			AgentID:          id,
			DependsOn:        def.DependsOn,
			OutputFile:       def.OutputFile,
			RequiresApproval: def.ApprovalGate && !autoApprove,
		})
	}

	var (
		st       *store.Store
		recorder crew.Recorder
	)
	if !noStore {
		var err error
		st, err = store.NewStore(&cfg.Database)
		if err != nil {
			// History is supplemental; run without it.
			log := logger.GetStoreLogger()
			log.Warn().Err(err).Msg("Run store unavailable, continuing without history")
			st = nil
		} else {
			recorder = st
		}
	}

	var events chan protocol.Event
	if serve {
		events = make(chan protocol.Event, 256)
	}

	var eventsSend chan<- protocol.Event
	if events != nil {
		eventsSend = events
	}

	c, err := crew.New(crew.Params{
		Agents:       crewAgents,
		Tasks:        crewTasks,
		Approver:     crew.TerminalApprover{},
		Recorder:     recorder,
		Events:       eventsSend,
		ShapeName:    shape,
		MaxRevisions: cfg.Pipeline.MaxRevisions,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return c, st, events, nil
}
