// Copyright (C) 2025-2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
)

const (
	appName    = "solidforge"
	appVersion = "0.1.0"
)

// Execute runs the CLI application.
func Execute() error {
	if len(os.Args) < 2 {
		return printUsage()
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		return runCommand(args)
	case "runs":
		return runsCommand(args)
	case "agents":
		return agentsCommand(args)
	case "serve":
		return serveCommand(args)
	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)
		return nil
	case "help", "-h", "--help":
		return printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		return printUsage()
	}
}

func printUsage() error {
	fmt.Printf(`%s - SHACL-to-TypeScript agent pipeline

Usage:
  %s <command> [arguments]

Commands:
  run --shape <name>   Run the generation pipeline for a SHACL shape
  runs                 List recent pipeline runs
  agents               Show agent definitions (resolved for a shape)
  serve                Start the observer API (REST + WebSocket)
  version              Print version information
  help                 Show this help message

Examples:
  %s run --shape Email
  %s run --shape Person --auto-approve --serve
  %s runs --limit 20
  %s agents --shape Email
  %s serve

`, appName, appName, appName, appName, appName, appName, appName)
	return nil
}
