// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools provides the closed set of capabilities agents may invoke:
// file reads, directory listings, file writes, and whitelisted shell
// commands. Tools never return errors to the caller; every failure mode is
// rendered as text, because the consuming agent can only read text.
package tools

import (
	"context"
)

// ID identifies a tool. The set is closed: agents reference tools by these
// ids and a reference outside the set fails crew construction.
type ID string

const (
	ReadFile      ID = "read_file"
	ListDirectory ID = "list_directory"
	WriteFile     ID = "write_file"
	RunShell      ID = "run_shell"
)

// Declaration describes a tool to the LLM backend as a callable function.
// Parameters is a JSON-schema object.
type Declaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Tool is a single capability. Run renders all outcomes, including
// failures, as the returned string.
type Tool interface {
	ID() ID
	Declaration() Declaration
	Run(ctx context.Context, args map[string]any) string
}

// Invocation is the ephemeral record of one tool call. It is handed to
// observers and discarded; it is not pipeline state.
type Invocation struct {
	Tool       ID
	Input      map[string]any
	Output     string
	ExitStatus int
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
