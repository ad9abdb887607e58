package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_LevelAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := WithComponent(New(Config{Level: "warn", Output: &buf}), "library")

	l.Info().Msg("dropped")
	l.Warn().Str("name", "cube").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	for key, want := range map[string]string{
		"level":     "warn",
		"component": "library",
		"service":   "prim",
		"name":      "cube",
		"message":   "kept",
	} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %q", key, entry[key], want)
		}
	}
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(Config{Level: "chatty", Output: &buf})
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := IntoContext(context.Background(), New(Config{Output: &buf}))
	FromContext(ctx).Info().Msg("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context did not write: %q", buf.String())
	}

	// A bare context yields a logger that writes nowhere.
	FromContext(context.Background()).Info().Msg("nowhere")
}
