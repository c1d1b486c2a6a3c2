package stream

import (
	"io"
	"os"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/intercept"
	"github.com/bimmerbailey/quell/internal/sanitize"
)

// Runner applies the suppression pipeline to parsed log entries: entries
// claimed by the interceptors are dropped and counted, everything else is
// sanitized in place.
type Runner struct {
	dispatcher *intercept.Dispatcher
	sanitizer  *sanitize.Sanitizer
	parser     *Parser
	minLevel   config.LogLevel
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMinimumLevel drops entries below the given level. Entries with no
// recognizable level always pass the gate.
func WithMinimumLevel(level config.LogLevel) RunnerOption {
	return func(r *Runner) {
		r.minLevel = level
	}
}

// NewRunner creates a Runner over the shared pipeline services.
func NewRunner(dispatcher *intercept.Dispatcher, sanitizer *sanitize.Sanitizer, opts ...RunnerOption) *Runner {
	r := &Runner{
		dispatcher: dispatcher,
		sanitizer:  sanitizer,
		parser:     NewParser(),
		minLevel:   config.LevelTrace,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply runs one entry through the pipeline. It returns the sanitized entry
// and true when the entry should be kept, or false when it was dropped.
//
// Dropped-for-level entries are silent and uncounted; suppressed entries
// are recorded by the claiming interceptor. Classification covers the full
// raw line plus any stack field, so extension-origin frames in stacks are
// caught.
func (r *Runner) Apply(entry config.LogEntry) (config.LogEntry, bool) {
	if entry.Level != config.LevelUnknown && entry.Level < r.minLevel {
		return config.LogEntry{}, false
	}

	message := entry.Message
	if message == "" {
		message = entry.Raw
	}
	ev := intercept.ErrorEvent{
		Message: message,
		Stack:   entry.Raw + "\n" + entry.Fields["stack"],
	}
	if r.dispatcher.Dispatch(ev) {
		return config.LogEntry{}, false
	}

	entry.Raw = r.sanitizer.Sanitize(entry.Raw)
	entry.Message = r.sanitizer.Sanitize(entry.Message)
	for k, v := range entry.Fields {
		entry.Fields[k] = r.sanitizer.Sanitize(v)
	}
	return entry, true
}

// Process parses entries from rd and applies the pipeline to each.
func (r *Runner) Process(rd io.Reader) ([]config.LogEntry, error) {
	entries, err := r.parser.Parse(rd)
	if err != nil {
		return nil, err
	}

	kept := make([]config.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if out, ok := r.Apply(entry); ok {
			kept = append(kept, out)
		}
	}
	return kept, nil
}

// ProcessFile opens a file and runs the pipeline over its contents.
func (r *Runner) ProcessFile(path string) ([]config.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return r.Process(f)
}
