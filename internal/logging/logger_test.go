// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected zerolog.Level
	}{
		{"trace", "trace", zerolog.TraceLevel},
		{"debug", "debug", zerolog.DebugLevel},
		{"info", "info", zerolog.InfoLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"warning alias", "warning", zerolog.WarnLevel},
		{"error", "error", zerolog.ErrorLevel},
		{"fatal", "fatal", zerolog.FatalLevel},
		{"disabled", "disabled", zerolog.Disabled},
		{"mixed case", "INFO", zerolog.InfoLevel},
		{"unknown defaults to info", "verbose", zerolog.InfoLevel},
		{"empty defaults to info", "", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGlobalLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	Info().Str("project", "demo").Msg("sync started")

	out := buf.String()
	if !strings.Contains(out, `"project":"demo"`) {
		t.Errorf("expected project field in output, got %q", out)
	}
	if !strings.Contains(out, "sync started") {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestWithCreatesChildLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	child := With().Str("component", "resolver").Logger()
	child.Info().Msg("lookup")

	if !strings.Contains(buf.String(), `"component":"resolver"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	logger := slog.New(NewSlogHandler())
	logger.Info("service started", "service", "relay")

	out := buf.String()
	if !strings.Contains(out, "service started") {
		t.Errorf("expected slog message in zerolog output, got %q", out)
	}
	if !strings.Contains(out, `"service":"relay"`) {
		t.Errorf("expected slog attr in zerolog output, got %q", out)
	}
}

func TestSlogHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(prev)

	logger := slog.New(NewSlogHandler()).WithGroup("supervisor")
	logger.Warn("restarting", "service", "http")

	if !strings.Contains(buf.String(), `"supervisor.service":"http"`) {
		t.Errorf("expected group-prefixed key, got %q", buf.String())
	}
}
