// Package match provides pattern-based classification of log and error text.
//
// A Matcher holds two categorized sets of regular expressions. Sensitive
// patterns flag content that must be redacted before forwarding; noise
// patterns flag messages that should be suppressed entirely. The two flags
// are independent: a message can be redacted and forwarded, or dropped
// regardless of sensitivity.
package match

import (
	"fmt"
	"regexp"
	"sync"
)

// Classification is the result of classifying a piece of text.
type Classification struct {
	// Sensitive is true when any sensitive pattern matches. The message
	// must be redacted before it is forwarded.
	Sensitive bool `json:"sensitive"`

	// Suppressed is true when any noise pattern matches. The message
	// should be withheld from the visible sink.
	Suppressed bool `json:"suppressed"`
}

// ReportFunc receives internal matcher failures. It must not call back into
// the matcher.
type ReportFunc func(err error)

// Matcher classifies text against categorized pattern sets.
//
// Patterns are registered at construction and may be extended at runtime;
// they are never removed during a session. Safe for concurrent use.
type Matcher struct {
	mu        sync.RWMutex
	sensitive []Pattern
	noise     []Pattern

	report     ReportFunc
	reportOnce sync.Once
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithSensitivePatterns selects built-in sensitive patterns by name.
// Defaults are used when no names are given.
func WithSensitivePatterns(names []string) Option {
	return func(m *Matcher) {
		if patterns := GetPatterns(names, CategorySensitive); len(patterns) > 0 {
			m.sensitive = patterns
		}
	}
}

// WithNoisePatterns selects built-in noise patterns by name.
// Defaults are used when no names are given.
func WithNoisePatterns(names []string) Option {
	return func(m *Matcher) {
		if patterns := GetPatterns(names, CategoryNoise); len(patterns) > 0 {
			m.noise = patterns
		}
	}
}

// WithReporter sets the function that receives internal matcher failures.
// The failure is reported at most once per Matcher.
func WithReporter(report ReportFunc) Option {
	return func(m *Matcher) {
		m.report = report
	}
}

// New creates a Matcher with the default built-in pattern sets, then applies
// the given options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		sensitive: GetPatterns(DefaultSensitivePatterns(), CategorySensitive),
		noise:     GetPatterns(DefaultNoisePatterns(), CategoryNoise),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Classify runs the text against both pattern categories.
//
// Matching short-circuits within each category for performance only; all
// patterns in a category are semantically equivalent. A pattern failure
// (pathological input) never propagates: the text is treated as
// non-sensitive and non-suppressed, and the failure is reported once.
func (m *Matcher) Classify(text string) (c Classification) {
	defer func() {
		if r := recover(); r != nil {
			m.reportFailure(fmt.Errorf("pattern matching panicked: %v", r))
			c = Classification{}
		}
	}()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, pattern := range m.sensitive {
		if pattern.Regex.MatchString(text) {
			c.Sensitive = true
			break
		}
	}
	for _, pattern := range m.noise {
		if pattern.Regex.MatchString(text) {
			c.Suppressed = true
			break
		}
	}
	return c
}

// ClassifyError classifies an error by message and stack trace. Noise
// patterns run against both; extension-origin markers in the stack alone are
// enough to suppress. Sensitivity is evaluated on both texts as well, so a
// token leaking into a stack frame still forces redaction.
func (m *Matcher) ClassifyError(message, stack string) Classification {
	c := m.Classify(message)
	if stack == "" {
		return c
	}
	sc := m.Classify(stack)
	return Classification{
		Sensitive:  c.Sensitive || sc.Sensitive,
		Suppressed: c.Suppressed || sc.Suppressed,
	}
}

// Add compiles expr and registers it at runtime under the given category.
// Sensitive patterns added this way redact with the generic marker.
func (m *Matcher) Add(category Category, name, expr string) error {
	if category != CategorySensitive && category != CategoryNoise {
		return fmt.Errorf("unknown pattern category: %q", category)
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", name, err)
	}

	pattern := Pattern{
		Name:     name,
		Regex:    re,
		Category: category,
	}
	if category == CategorySensitive {
		pattern.Marker = GenericMarker
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if category == CategorySensitive {
		m.sensitive = append(m.sensitive, pattern)
	} else {
		m.noise = append(m.noise, pattern)
	}
	return nil
}

// GenericMarker replaces matches of runtime-added sensitive patterns.
const GenericMarker = "[REDACTED]"

// SensitivePatterns returns a snapshot of the active sensitive patterns.
func (m *Matcher) SensitivePatterns() []Pattern {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Pattern, len(m.sensitive))
	copy(out, m.sensitive)
	return out
}

// NoisePatterns returns a snapshot of the active noise patterns.
func (m *Matcher) NoisePatterns() []Pattern {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Pattern, len(m.noise))
	copy(out, m.noise)
	return out
}

func (m *Matcher) reportFailure(err error) {
	if m.report == nil {
		return
	}
	m.reportOnce.Do(func() {
		m.report(err)
	})
}
