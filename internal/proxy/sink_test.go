package proxy

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/match"
	"github.com/bimmerbailey/quell/internal/output"
	"github.com/bimmerbailey/quell/internal/sanitize"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf, output.ColorNever)

	sink.Emit(config.LevelWarn, []any{"disk", "almost full"})

	if got := buf.String(); got != "WARN disk almost full\n" {
		t.Errorf("WriterSink output = %q", got)
	}
}

func TestWriterSinkColorAlways(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf, output.ColorAlways)

	sink.Emit(config.LevelError, []any{"boom"})

	if got := buf.String(); !strings.HasPrefix(got, "\033[31m") {
		t.Errorf("expected red escape prefix, got %q", got)
	}
}

func TestSlogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	matcher := match.New()
	proxied := NewLogger(NewSlogSink(logger), sanitize.New(matcher),
		WithMinimumLevel(config.LevelTrace))

	proxied.Trace("handshake detail")
	proxied.Warn("token=abc.def.ghi leaked")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("trace should surface as slog debug, got:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("missing warn record, got:\n%s", out)
	}
	if strings.Contains(out, "abc.def.ghi") {
		t.Errorf("slog sink received unsanitized text:\n%s", out)
	}
}

func TestZapSinkLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	zl := zap.New(core)

	matcher := match.New()
	proxied := NewLogger(NewZapSink(zl), sanitize.New(matcher),
		WithMinimumLevel(config.LevelTrace))

	proxied.Debug("cache miss")
	proxied.Error("auth failed with token=abc.def.ghi")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("recorded %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("entry 0 level = %v, want debug", entries[0].Level)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("entry 1 level = %v, want error", entries[1].Level)
	}
	if strings.Contains(entries[1].Message, "abc.def.ghi") {
		t.Errorf("zap sink received unsanitized text: %q", entries[1].Message)
	}
	if !strings.Contains(entries[1].Message, "[TOKEN_REDACTED]") {
		t.Errorf("expected redaction marker in %q", entries[1].Message)
	}
}
