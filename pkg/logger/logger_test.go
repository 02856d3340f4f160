package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoggerWritesTypedFields(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, zerolog.InfoLevel, "json", "").With(String("env", "test"))

	l.Debug("hidden")
	l.Info("series normalized",
		Int("kept", 42),
		Duration("took", 1500*time.Millisecond),
		Date("latest", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)),
		Error(errors.New("two bad dates")),
		Error(nil),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "series normalized" || entry["env"] != "test" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["kept"] != float64(42) || entry["took"] != float64(1500) || entry["latest"] != "2024-03-04" {
		t.Fatalf("typed fields wrong: %v", entry)
	}
	if entry["error"] != "two bad dates" {
		t.Fatalf("error field = %v", entry["error"])
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&Config{Level: "chatty"}); err == nil {
		t.Fatalf("expected level error")
	}
}
