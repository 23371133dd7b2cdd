// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want %q", cfg.Level, "info")
	}
	if cfg.Format != "console" {
		t.Errorf("Format = %q, want %q", cfg.Format, "console")
	}
	if !cfg.Timestamp {
		t.Error("Timestamp = false, want true")
	}
	if cfg.Output == nil {
		t.Error("Output = nil, want os.Stderr")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"off", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, lvl := range []string{"debug", "INFO", "warning", "off"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false, want true", lvl)
		}
	}
	for _, lvl := range []string{"", "loud", "critical"} {
		if ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = true, want false", lvl)
		}
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Debug().Str("seed", "abc").Msg("resolved seed")

	out := buf.String()
	if !strings.Contains(out, `"level":"debug"`) {
		t.Errorf("output missing level field: %s", out)
	}
	if !strings.Contains(out, `"seed":"abc"`) {
		t.Errorf("output missing seed field: %s", out)
	}
	if !strings.Contains(out, "resolved seed") {
		t.Errorf("output missing message: %s", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "json", Output: &buf})

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestNewConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "console", Output: &buf})
	l.Info().Msg("console line")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("console output looks like JSON: %s", out)
	}
	if !strings.Contains(out, "console line") {
		t.Errorf("console output missing message: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { SetLogger(prev) })

	l := WithComponent("index")
	l.Info().Msg("built")

	if !strings.Contains(buf.String(), `"component":"index"`) {
		t.Errorf("component field missing: %s", buf.String())
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-42")

	Ctx(ctx).Info().Msg("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("request_id missing: %s", buf.String())
	}
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}

	id := GenerateRequestID()
	if len(id) != 36 {
		t.Errorf("GenerateRequestID() length = %d, want 36", len(id))
	}
	if id == GenerateRequestID() {
		t.Error("GenerateRequestID() returned the same ID twice")
	}

	ctx := ContextWithRequestID(context.Background(), id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, id)
	}
}
