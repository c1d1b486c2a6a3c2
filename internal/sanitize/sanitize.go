// Package sanitize redacts sensitive substrings from log payloads.
//
// Redaction replaces every match of a sensitive pattern with that pattern's
// fixed marker while preserving surrounding text:
//
//	"token: abc.def.ghi more text" → "[TOKEN_REDACTED] more text"
//
// Redaction is idempotent: markers never re-match any registered pattern,
// so sanitizing already-sanitized text is a no-op.
package sanitize

import (
	"encoding/json"

	"github.com/bimmerbailey/quell/internal/match"
)

// UnprintablePlaceholder replaces values that cannot be stringified.
const UnprintablePlaceholder = "[UNPRINTABLE]"

// Sanitizer redacts text and structured values using the sensitive patterns
// of a shared Matcher. The live pattern set is consulted on every call, so
// patterns added at runtime take effect immediately.
type Sanitizer struct {
	matcher *match.Matcher
}

// New creates a Sanitizer backed by the given Matcher.
func New(matcher *match.Matcher) *Sanitizer {
	return &Sanitizer{matcher: matcher}
}

// Sanitize replaces every sensitive match in text with its pattern's marker.
func (s *Sanitizer) Sanitize(text string) string {
	result := text
	for _, pattern := range s.matcher.SensitivePatterns() {
		marker := pattern.Marker
		if marker == "" {
			marker = match.GenericMarker
		}
		result = pattern.Regex.ReplaceAllString(result, marker)
	}
	return result
}

// SanitizeValue redacts a value of any shape, returning the same shape.
//
// Strings are sanitized as text. Slices and string-keyed maps are recursed:
// every nested string is sanitized, nested non-string scalars pass through
// unchanged. Any other top-level value is stringified best-effort (JSON) and
// sanitized as text; on stringify failure a generic placeholder is returned.
func (s *Sanitizer) SanitizeValue(v any) any {
	switch v.(type) {
	case string, []any, []string, map[string]any, map[string]string:
		return s.sanitizeNested(v)
	default:
		return s.Sanitize(stringify(v))
	}
}

// sanitizeNested walks structured values. Non-string, non-structured leaves
// pass through unchanged.
func (s *Sanitizer) sanitizeNested(v any) any {
	switch val := v.(type) {
	case string:
		return s.Sanitize(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = s.sanitizeNested(elem)
		}
		return out
	case []string:
		out := make([]string, len(val))
		for i, elem := range val {
			out[i] = s.Sanitize(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = s.sanitizeNested(elem)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, elem := range val {
			out[k] = s.Sanitize(elem)
		}
		return out
	default:
		return v
	}
}

// stringify renders an arbitrary value as text for sanitization.
func stringify(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return UnprintablePlaceholder
	}
	return string(b)
}
