package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		id   string
	}{
		{"nil context", nil, "run-1"},
		{"background", context.Background(), "run-2"},
		{"empty id", context.Background(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRunID(tt.ctx, tt.id)
			if got := RunIDFromContext(ctx); got != tt.id {
				t.Fatalf("RunIDFromContext = %q, want %q", got, tt.id)
			}
		})
	}
}

func TestRunIDFromContext_Nil(t *testing.T) {
	if got := RunIDFromContext(nil); got != "" {
		t.Fatalf("RunIDFromContext(nil) = %q, want empty", got)
	}
}

func TestFromContext_AddsRunID(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test"})
	t.Cleanup(func() { Configure(Config{}) })

	ctx := ContextWithRunID(context.Background(), "abc")
	logger := FromContext(ctx, WithComponent("unit"))
	logger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	for key, want := range map[string]string{
		"run_id":    "abc",
		"component": "unit",
		"service":   "test",
		"message":   "hello",
	} {
		if entry[key] != want {
			t.Fatalf("%s = %v, want %q (line %s)", key, entry[key], want, buf.String())
		}
	}
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Fatalf("warn line not written")
	}
}
