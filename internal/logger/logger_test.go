package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON output, got error: %v (%q)", err, buf.String())
	}
	return entry
}

func TestNew_Modes(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		t.Run(env, func(t *testing.T) {
			logger := New(env)
			if logger == nil || logger.GetZerolog() == nil {
				t.Fatal("Expected logger to be created")
			}
		})
	}
}

func TestNew_LevelOverride(t *testing.T) {
	logger := New("production", "WARN")
	if got := logger.GetZerolog().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("Expected warn level, got %s", got)
	}

	logger = New("development")
	if got := logger.GetZerolog().GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("Expected debug level in development, got %s", got)
	}

	logger = New("production", "not-a-level")
	if got := logger.GetZerolog().GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("Expected fallback to info level, got %s", got)
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.DebugLevel)

	logger.Debug("debug message", map[string]interface{}{"key1": "value1", "key2": 42})
	entry := decodeLine(t, &buf)
	if entry["message"] != "debug message" || entry["key1"] != "value1" {
		t.Errorf("Unexpected debug entry: %v", entry)
	}
	if entry["level"] != "debug" {
		t.Errorf("Expected debug level field, got %v", entry["level"])
	}

	buf.Reset()
	logger.Warn("import skipped rows", map[string]interface{}{"skipped": 3})
	entry = decodeLine(t, &buf)
	if entry["level"] != "warn" || entry["skipped"] != float64(3) {
		t.Errorf("Unexpected warn entry: %v", entry)
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Error("query failed", errors.New("connection reset"), map[string]interface{}{
		"table": "ower.debtor",
	})

	entry := decodeLine(t, &buf)
	if entry["error"] != "connection reset" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
	if entry["table"] != "ower.debtor" {
		t.Errorf("Expected table field, got %v", entry["table"])
	}
}

func TestChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.With(map[string]interface{}{"component": "importer"}).
		WithRequestID("req-12345").
		WithUser(42).
		Info("upload received", nil)

	entry := decodeLine(t, &buf)
	if entry["component"] != "importer" {
		t.Error("Expected component field from context")
	}
	if entry["request_id"] != "req-12345" {
		t.Error("Expected request_id field")
	}
	if entry["uid"] != float64(42) {
		t.Errorf("Expected uid 42, got %v", entry["uid"])
	}
}

func TestInfoLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	logger.Debug("debug message", nil)
	if strings.Contains(buf.String(), "debug message") {
		t.Error("Debug message should not appear at info level")
	}

	logger.Info("message with nil fields", nil)
	if !strings.Contains(buf.String(), "message with nil fields") {
		t.Error("Expected message to be logged even with nil fields")
	}
}

func TestGetZerolog_StandardLogWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, zerolog.InfoLevel)

	std := stdlog.New(logger.GetZerolog(), "", 0)
	std.Print("http: TLS handshake error from 10.0.0.1:5555: EOF")

	entry := decodeLine(t, &buf)
	if entry["message"] != "http: TLS handshake error from 10.0.0.1:5555: EOF" {
		t.Errorf("Expected the standard log line as message, got %v", entry["message"])
	}
}
