package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	logger := New("mission")
	logger.Info("hello")

	output := buf.String()
	if !strings.Contains(output, "component=mission") {
		t.Errorf("expected component=mission in output, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected 'hello' in output, got: %s", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	New("filediff").Info("json check")

	output := buf.String()
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Errorf("expected JSON level field, got: %s", output)
	}
	if !strings.Contains(output, `"component":"filediff"`) {
		t.Errorf("expected JSON component field, got: %s", output)
	}
}

func TestInit_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	logger := New("gate-test")
	logger.Info("should be suppressed")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be suppressed") {
		t.Error("Info message should be suppressed at Warn level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("Warn message should appear at Warn level")
	}
}

func TestInit_ActionsFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "actions", &buf)

	logger := New("review")
	logger.Error("Alpha failed", "errors", 2)
	logger.Warn("old template")
	logger.Debug("details")
	logger.Info("plain")

	output := buf.String()
	for _, want := range []string{
		"::error::Alpha failed component=review errors=2",
		"::warning::old template component=review",
		"::debug::details component=review",
		"plain component=review",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestActionsHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewActionsHandler(&buf, slog.LevelInfo)).WithGroup("pr")
	logger.Info("posted", "number", 7)

	if !strings.Contains(buf.String(), "posted pr.number=7") {
		t.Errorf("expected grouped key, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
