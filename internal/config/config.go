// Package config provides configuration types and helpers for quell.
package config

import (
	"encoding/json"
	"strings"
	"time"
)

// Config holds the application-wide configuration.
type Config struct {
	Format              string         `mapstructure:"format"`
	Verbose             bool           `mapstructure:"verbose"`
	MinimumLogLevel     string         `mapstructure:"minimum_log_level"`
	ProductionMode      bool           `mapstructure:"production_mode"`
	MaxRecentSuppressed int            `mapstructure:"max_recent_suppressed"`
	Patterns            PatternsConfig `mapstructure:"patterns"`
	LLM                 LLMConfig      `mapstructure:"llm"`
}

// PatternsConfig selects which classification patterns are active.
type PatternsConfig struct {
	// Sensitive names built-in redaction patterns to enable.
	// Available: jwt, bearer, token_kv, aws_key, private_key
	Sensitive []string `mapstructure:"sensitive"`

	// Noise names built-in suppression patterns to enable.
	// Available: extension_origin, content_script, resize_observer, source_map, devtools_banner
	Noise []string `mapstructure:"noise"`

	// ExtraSensitive and ExtraNoise are raw regular expressions added on
	// top of the built-in sets at startup.
	ExtraSensitive []string `mapstructure:"extra_sensitive"`
	ExtraNoise     []string `mapstructure:"extra_noise"`
}

// LLMConfig holds configuration for the explain command's LLM provider.
type LLMConfig struct {
	// Provider selects which LLM to use. Only "ollama" is supported.
	Provider string `mapstructure:"provider"`

	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	Ollama OllamaConfig `mapstructure:"ollama"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host      string `mapstructure:"host"`       // API endpoint
	Model     string `mapstructure:"model"`      // Default model name
	KeepAlive string `mapstructure:"keep_alive"` // e.g., "5m"
}

// DefaultMaxRecentSuppressed is the recent-suppressed ring buffer size used
// when max_recent_suppressed is unset or invalid.
const DefaultMaxRecentSuppressed = 20

// LogLevel represents a standard log severity level, ordered from most to
// least verbose.
type LogLevel int

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelUnknown
)

// String returns the string representation of a LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON implements json.Marshaler for LogLevel.
func (l LogLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler for LogLevel.
func (l *LogLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseLevel(s)
	return nil
}

// ParseLevel converts a string to a LogLevel.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "trace", "trc":
		return LevelTrace
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error", "err", "fatal", "critical", "crit":
		return LevelError
	default:
		return LevelUnknown
	}
}

// EffectiveMinimumLevel resolves the minimum forwarded level from the
// configuration. Production mode forces warn regardless of the configured
// level; an unset or unparseable level falls back to info.
func (c *Config) EffectiveMinimumLevel() LogLevel {
	if c.ProductionMode {
		return LevelWarn
	}
	level := ParseLevel(c.MinimumLogLevel)
	if level == LevelUnknown {
		return LevelInfo
	}
	return level
}

// RecentBufferSize returns the configured recent-suppressed buffer size,
// falling back to the default for zero or negative values.
func (c *Config) RecentBufferSize() int {
	if c.MaxRecentSuppressed <= 0 {
		return DefaultMaxRecentSuppressed
	}
	return c.MaxRecentSuppressed
}

// LogEntry represents a single parsed log line.
type LogEntry struct {
	Raw       string            `json:"raw"`
	Timestamp time.Time         `json:"timestamp,omitempty"`
	Level     LogLevel          `json:"level"`
	Message   string            `json:"message"`
	Source    string            `json:"source,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Line      int               `json:"line"`
}
