package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestConfigureWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Configure(Config{Level: InfoLevel, Output: &buf})
	defer Configure(Config{Level: InfoLevel, Pretty: true})

	l.Info().Str("batch", "B1").Msg("fees applied")
	l.Debug().Msg("suppressed")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["batch"] != "B1" || entry["message"] != "fees applied" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestCtxFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: DebugLevel, Output: &buf})
	defer Configure(Config{Level: InfoLevel, Pretty: true})

	Ctx(context.Background()).Info().Msg("hello")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Fatalf("expected default logger output, got %q", buf.String())
	}

	buf.Reset()
	scoped := Configure(Config{Level: DebugLevel, Output: &buf}).With().Str("requestId", "abc").Logger()
	ctx := WithContext(context.Background(), scoped)
	Ctx(ctx).Info().Msg("scoped")
	if !bytes.Contains(buf.Bytes(), []byte(`"requestId":"abc"`)) {
		t.Fatalf("expected request id field, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel(" DEBUG ") != DebugLevel {
		t.Fatal("expected debug")
	}
	if ParseLevel("verbose") != InfoLevel {
		t.Fatal("unknown levels default to info")
	}
}
