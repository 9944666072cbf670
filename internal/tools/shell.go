// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/logger"
)

// shellTool runs a whitelisted command in a subprocess with a hard timeout.
// STDOUT and STDERR are captured separately; the exit code appears in the
// report only when non-zero. A timeout yields only the timeout message, no
// partial output.
type shellTool struct {
	timeout time.Duration
	allowed []string
	workDir string
}

func newShellTool(cfg *config.ShellConfig, workDir string) *shellTool {
	return &shellTool{
		timeout: cfg.Timeout,
		allowed: cfg.AllowedCommands,
		workDir: workDir,
	}
}

func (t *shellTool) ID() ID { return RunShell }

func (t *shellTool) Declaration() Declaration {
	return Declaration{
		Name: string(RunShell),
		Description: fmt.Sprintf(
			"Run a shell command and return its output. Commands are killed after %s.", t.timeout),
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{
					"type":        "string",
					"description": "The shell command to execute.",
				},
			},
			"required": []string{"command"},
		},
	}
}

func (t *shellTool) Run(ctx context.Context, args map[string]any) string {
	command := strings.TrimSpace(stringArg(args, "command"))
	if command == "" {
		return "Error: no command provided"
	}

	if len(t.allowed) > 0 {
		first := strings.Fields(command)[0]
		if !lo.Contains(t.allowed, first) {
			return fmt.Sprintf("Error: command %q is not permitted", first)
		}
	}

	log := logger.GetToolsLogger()
	log.Debug().Str("command", command).Msg("Running shell command")

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = t.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		log.Warn().Str("command", command).Dur("timeout", t.timeout).Msg("Shell command timed out")
		return fmt.Sprintf("Error: command timed out after %s", t.timeout)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			log.Warn().Err(err).Str("command", command).Msg("Shell command failed to execute")
			return fmt.Sprintf("Error: failed to execute command: %v", err)
		}
	}

	return composeReport(stdout.String(), stderr.String(), exitCode)
}

func composeReport(stdout, stderr string, exitCode int) string {
	var b strings.Builder
	b.WriteString("STDOUT:\n")
	b.WriteString(stdout)
	if !strings.HasSuffix(stdout, "\n") && stdout != "" {
		b.WriteString("\n")
	}
	b.WriteString("STDERR:\n")
	b.WriteString(stderr)
	if !strings.HasSuffix(stderr, "\n") && stderr != "" {
		b.WriteString("\n")
	}
	if exitCode != 0 {
		b.WriteString(fmt.Sprintf("Return code: %d\n", exitCode))
	}
	return b.String()
}
