// Copyright (C) 2025-2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to the log.levels config keys.
// These keep logger names consistent across the codebase.

// GetCrewLogger returns a logger for crew orchestration.
func GetCrewLogger() zerolog.Logger {
	return GetLogger("crew")
}

// GetAgentsLogger returns a logger for agent definition loading.
func GetAgentsLogger() zerolog.Logger {
	return GetLogger("agents")
}

// GetToolsLogger returns a logger for tool execution.
func GetToolsLogger() zerolog.Logger {
	return GetLogger("tools")
}

// GetBackendLogger returns a logger for LLM backend calls.
func GetBackendLogger() zerolog.Logger {
	return GetLogger("llm")
}

// GetStoreLogger returns a logger for run-history persistence.
func GetStoreLogger() zerolog.Logger {
	return GetLogger("store")
}

// GetAPILogger returns a logger for the HTTP API.
func GetAPILogger() zerolog.Logger {
	return GetLogger("api")
}
