package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "fridgy-api", Output: &buf})

	logg.Info(context.Background(), "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["service"] != "fridgy-api" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["message"] != "hello" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
}

func TestWithFieldsAccumulate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "fridgy-api", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithHouseholdID(ctx, "hh-2")
	logg.Info(ctx, "scoped")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("expected request_id, got %v", entry["request_id"])
	}
	if entry["household_id"] != "hh-2" {
		t.Fatalf("expected household_id, got %v", entry["household_id"])
	}
}

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("DEBUG"); got != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %s", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", got)
	}
	if got := ParseLevel("nonsense"); got != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", got)
	}
}

func TestErrorIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "fridgy-api", Output: &buf})

	logg.Error(context.Background(), "boom", errors.New("cause"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["stack"] == nil || entry["stack"] == "" {
		t.Fatal("expected stack field on error log")
	}
	if entry["error"] != "cause" {
		t.Fatalf("expected error field, got %v", entry["error"])
	}
}
