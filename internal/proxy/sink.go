package proxy

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/output"
)

// WriterSink writes leveled text lines to an io.Writer, coloring by severity
// when the writer is a terminal.
type WriterSink struct {
	mu   sync.Mutex
	w    io.Writer
	mode output.ColorMode
}

// NewWriterSink creates a WriterSink with the given color mode.
func NewWriterSink(w io.Writer, mode output.ColorMode) *WriterSink {
	return &WriterSink{w: w, mode: mode}
}

// Emit implements Sink.
func (s *WriterSink) Emit(level config.LogLevel, args []any) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	line := level.String() + " " + strings.Join(parts, " ")
	if output.ShouldColorize(s.mode, s.w) {
		line = output.ColorizeLine(level, line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

// SlogSink forwards calls to a *slog.Logger. Trace maps to debug, which is
// the closest slog level.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a SlogSink.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Emit implements Sink.
func (s *SlogSink) Emit(level config.LogLevel, args []any) {
	msg := fmt.Sprintln(args...)
	msg = strings.TrimSuffix(msg, "\n")
	switch level {
	case config.LevelTrace, config.LevelDebug:
		s.logger.Debug(msg)
	case config.LevelInfo:
		s.logger.Info(msg)
	case config.LevelWarn:
		s.logger.Warn(msg)
	default:
		s.logger.Error(msg)
	}
}

// Call records a single forwarded sink invocation.
type Call struct {
	Level config.LogLevel
	Args  []any
}

// CaptureSink records every forwarded call. It backs tests and the
// call-count parity checks around optimize/restore.
type CaptureSink struct {
	mu    sync.Mutex
	calls []Call
}

// Emit implements Sink.
func (s *CaptureSink) Emit(level config.LogLevel, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Level: level, Args: args})
}

// Calls returns a copy of the recorded calls.
func (s *CaptureSink) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Reset discards all recorded calls.
func (s *CaptureSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}
