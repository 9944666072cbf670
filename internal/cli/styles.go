// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/solidforge/solidforge/internal/crew"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func statusStyled(status string) string {
	switch status {
	case "completed":
		return okStyle.Render(status)
	case "failed":
		return failStyle.Render(status)
	default:
		return dimStyle.Render(status)
	}
}

// printRunSummary renders the per-task outcome table after a run.
func printRunSummary(run *crew.Run) {
	if run == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render(fmt.Sprintf("Run %s (%s)", run.ID, run.ShapeName)))
	fmt.Fprintf(&b, "%s %s\n\n", dimStyle.Render("status:"), statusStyled(run.Status.String()))

	fmt.Fprintf(&b, "%s\n", headerStyle.Render("Tasks"))
	for _, r := range run.Results {
		line := fmt.Sprintf("  %-12s %s", r.TaskID, statusStyled(r.Status.String()))
		if r.Revisions > 0 {
			line += dimStyle.Render(fmt.Sprintf("  (%d revisions)", r.Revisions))
		}
		if r.Error != "" {
			line += "\n" + failStyle.Render("    "+r.Error)
		}
		b.WriteString(line + "\n")
	}
	if !run.CompletedAt.IsZero() {
		elapsed := run.CompletedAt.Sub(run.StartedAt).Round(10 * time.Millisecond)
		fmt.Fprintf(&b, "\n%s\n", dimStyle.Render("elapsed: "+elapsed.String()))
	}

	fmt.Print(b.String())
}
