package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/klinik/clinic-scheduler/internal/config"
)

func TestNewLoggerWritesJSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "info", LogFormat: "text", Environment: "production"}

	newLogger(&buf, cfg).Info("booked", "appointment_id", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected json output, got %q", buf.String())
	}
	if rec["msg"] != "booked" || rec["service"] != "clinic-scheduler" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", Environment: "production"}

	l := newLogger(&buf, cfg)
	l.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered, got %q", buf.String())
	}

	l.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("warn should be written")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
