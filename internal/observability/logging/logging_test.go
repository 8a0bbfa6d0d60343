package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestValidateAndExtractRequestID(t *testing.T) {
	valid := "3f2b8c1e-6a4d-4b8f-9c2e-1d5a7b9e0f12"
	if got := ValidateAndExtractRequestID(valid); got != valid {
		t.Errorf("valid ID replaced: got %s", got)
	}

	for _, in := range []string{"", "not-a-uuid"} {
		got := ValidateAndExtractRequestID(in)
		if got == in || got == "" {
			t.Errorf("ValidateAndExtractRequestID(%q) = %q, want a fresh UUID", in, got)
		}
	}
}

func TestNewHandler_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, HandlerConfig{
		Service:       ServiceInfo{Name: "scheduler", Version: "test"},
		Environment:   EnvDev,
		Level:         slog.LevelInfo,
		DefaultModule: Module("measurement-scheduler"),
	}))

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithModule(ctx, Module("schedule"))
	logger.InfoContext(ctx, "hello", slog.String("user_id", "u1"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}

	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", entry["request_id"])
	}
	if entry["module"] != "schedule" {
		t.Errorf("module = %v, want schedule", entry["module"])
	}
	if entry["env"] != "dev" {
		t.Errorf("env = %v, want dev", entry["env"])
	}
	service, ok := entry["service"].(map[string]any)
	if !ok || service["name"] != "scheduler" {
		t.Errorf("service = %v, want name scheduler", entry["service"])
	}
}

func TestNewHandler_DefaultModule(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, HandlerConfig{
		Level:         slog.LevelInfo,
		DefaultModule: Module("measurement-scheduler"),
	}))

	logger.Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["module"] != "measurement-scheduler" {
		t.Errorf("module = %v, want measurement-scheduler", entry["module"])
	}
	if _, ok := entry["request_id"]; ok {
		t.Errorf("unexpected request_id without one in context")
	}
}
