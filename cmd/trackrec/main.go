// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Command trackrec recommends tracks that sound like a seed track, using only
// the audio features of a tabular dataset.
//
// # Commands
//
//	trackrec recommend <data-path> [--seed-id ID | --multi-seed-ids A,B | --seed-query TEXT]
//	trackrec search <data-path> <query> [--limit 10]
//	trackrec serve [data-path] [--port 8089] [--reload-interval 1h]
//
// Without a seed flag, recommend draws a seed track at random with a fixed
// seed, so repeated runs over the same file pick the same track.
//
// # Configuration
//
// Configuration is layered with Koanf v2 (highest priority last):
//   - Built-in defaults
//   - YAML file (--config, TRACKREC_CONFIG, ./trackrec.yaml)
//   - Environment variables (TRACKREC_DATA_PATH, TRACKREC_ENGINE_METRIC, ...)
//   - Command-line flags
//
// # Exit Codes
//
//	0  success
//	1  any load, fit, query or configuration failure
//	2  a text search (--seed-query or search) matched nothing
//
// Results go to stdout. Logs, search echoes and, for csv and json output,
// the seed header go to stderr so that stdout stays machine readable.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/trackrec/internal/logging"
	"github.com/tomtom215/trackrec/internal/pipeline"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitNoMatch = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	logger := a.logger
	if logger == nil {
		l := logging.New(logging.Config{Level: "info", Format: "console", Output: stderr})
		logger = &l
	}
	if errors.Is(err, pipeline.ErrNoTextMatch) {
		logger.Warn().Err(err).Msg("No matching tracks")
		return exitNoMatch
	}
	logger.Error().Err(err).Msg("trackrec failed")
	return exitError
}
