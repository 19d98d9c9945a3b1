package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestBaseHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newBaseHandler(&buf, false)).Info("http request", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output in production, got %q", buf.String())
	}
	if entry["msg"] != "http request" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}

	buf.Reset()
	l := slog.New(newBaseHandler(&buf, true))
	l.Debug("debug line", "user_id", "u1")
	if !strings.Contains(buf.String(), "user_id=u1") {
		t.Fatalf("expected text debug output in development, got %q", buf.String())
	}
}

func TestProductionHandlerSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newBaseHandler(&buf, false)).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %q", buf.String())
	}
}

func TestInitWithoutSentry(t *testing.T) {
	Init(true, "development", "")
	if Log == nil {
		t.Fatal("expected global logger")
	}
	if SentryEnabled() {
		t.Fatal("sentry should be disabled without a DSN")
	}
	Flush()
}
