// Package proxy provides a level-gated, sanitizing front-end over a logging
// sink.
//
// The host opts in by routing its logging calls through a Logger; nothing is
// rebound globally. Every forwarded argument passes through the sanitizer,
// and messages matching a noise pattern are withheld from the sink entirely.
package proxy

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/match"
	"github.com/bimmerbailey/quell/internal/sanitize"
)

// Sink receives sanitized log calls. Implementations must be safe for
// concurrent use.
type Sink interface {
	Emit(level config.LogLevel, args []any)
}

// FuncSink adapts a plain function to the Sink interface.
type FuncSink func(level config.LogLevel, args []any)

// Emit implements Sink.
func (f FuncSink) Emit(level config.LogLevel, args []any) {
	f(level, args)
}

// loggerState is shared by a Logger and all its labeled derivatives, so
// optimize/restore affects the whole family.
type loggerState struct {
	mu        sync.Mutex
	sink      Sink
	sanitizer *sanitize.Sanitizer
	matcher   *match.Matcher
	minLevel  config.LogLevel
	optimized bool
	savedMin  config.LogLevel
	disabled  map[config.LogLevel]bool
}

// Logger forwards log calls to a Sink after level gating, suppression
// classification, and argument sanitization.
type Logger struct {
	state *loggerState
	label string
}

// Option configures a Logger.
type Option func(*loggerState)

// WithMinimumLevel sets the lowest level that is forwarded. Calls below it
// are dropped silently and are not counted anywhere.
func WithMinimumLevel(level config.LogLevel) Option {
	return func(s *loggerState) {
		s.minLevel = level
	}
}

// WithMatcher enables suppression classification of forwarded messages.
// Without a matcher only level gating and sanitization apply.
func WithMatcher(m *match.Matcher) Option {
	return func(s *loggerState) {
		s.matcher = m
	}
}

// NewLogger creates a Logger writing to sink. The sanitizer is required;
// the default minimum level is info.
func NewLogger(sink Sink, sanitizer *sanitize.Sanitizer, opts ...Option) *Logger {
	state := &loggerState{
		sink:      sink,
		sanitizer: sanitizer,
		minLevel:  config.LevelInfo,
		disabled:  make(map[config.LogLevel]bool),
	}
	for _, opt := range opts {
		opt(state)
	}
	return &Logger{state: state}
}

// WithLabel returns a contextual logger that prepends the label to every
// forwarded call. The derived logger shares sink state with its parent.
func (l *Logger) WithLabel(label string) *Logger {
	combined := label
	if l.label != "" {
		combined = l.label + " " + label
	}
	return &Logger{state: l.state, label: combined}
}

// Emit forwards a log call at the given level.
//
// Calls below the effective minimum level, at a disabled level, or matching
// a noise pattern are dropped with no side effect. All other calls have
// every argument sanitized and are forwarded to the sink at the same level.
func (l *Logger) Emit(level config.LogLevel, args ...any) {
	s := l.state

	s.mu.Lock()
	sink := s.sink
	sanitizer := s.sanitizer
	matcher := s.matcher
	minLevel := s.minLevel
	dropped := s.disabled[level]
	s.mu.Unlock()

	if dropped || level < minLevel {
		return
	}

	if matcher != nil && matcher.Classify(argText(args)).Suppressed {
		return
	}

	out := make([]any, 0, len(args)+1)
	if l.label != "" {
		out = append(out, sanitizer.Sanitize(l.label))
	}
	for _, arg := range args {
		out = append(out, sanitizer.SanitizeValue(arg))
	}
	sink.Emit(level, out)
}

// Trace logs at trace level.
func (l *Logger) Trace(args ...any) { l.Emit(config.LevelTrace, args...) }

// Debug logs at debug level.
func (l *Logger) Debug(args ...any) { l.Emit(config.LevelDebug, args...) }

// Info logs at info level.
func (l *Logger) Info(args ...any) { l.Emit(config.LevelInfo, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(args ...any) { l.Emit(config.LevelWarn, args...) }

// Error logs at error level.
func (l *Logger) Error(args ...any) { l.Emit(config.LevelError, args...) }

// OptimizeForProduction raises the minimum level to warn and disables the
// debug and trace sinks for the remainder of the process (until Restore).
// Calling it again while optimized is a no-op.
func (l *Logger) OptimizeForProduction() {
	s := l.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.optimized {
		return
	}
	s.optimized = true
	s.savedMin = s.minLevel
	if s.minLevel < config.LevelWarn {
		s.minLevel = config.LevelWarn
	}
	s.disabled[config.LevelDebug] = true
	s.disabled[config.LevelTrace] = true
}

// Restore reinstates the exact pre-optimization sink behavior. A no-op when
// the logger is not optimized.
func (l *Logger) Restore() {
	s := l.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.optimized {
		return
	}
	s.optimized = false
	s.minLevel = s.savedMin
	delete(s.disabled, config.LevelDebug)
	delete(s.disabled, config.LevelTrace)
}

// argText renders the call arguments as a single string for classification.
func argText(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ")
}
