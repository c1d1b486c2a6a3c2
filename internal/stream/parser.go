// Package stream parses log lines and runs them through the suppression
// pipeline, from whole files or live tails.
package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/bimmerbailey/quell/internal/config"
)

// Parser reads log lines into structured entries. It understands JSON-line
// logs and falls back to level extraction on generic lines.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads log entries from the given reader.
func (p *Parser) Parse(r io.Reader) ([]config.LogEntry, error) {
	var entries []config.LogEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxScanTokenSize), maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, p.ParseLine(line, lineNum))
	}

	if err := scanner.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

const maxScanTokenSize = 1024 * 1024 // 1MB

// ParseLine parses a single log line into a LogEntry.
func (p *Parser) ParseLine(line string, lineNum int) config.LogEntry {
	entry := config.LogEntry{
		Raw:   line,
		Line:  lineNum,
		Level: config.LevelUnknown,
	}

	if p.tryParseJSON(line, &entry) {
		return entry
	}

	entry.Level = extractLevel(line)
	entry.Message = line
	return entry
}

// tryParseJSON attempts to parse the line as a JSON log entry.
func (p *Parser) tryParseJSON(line string, entry *config.LogEntry) bool {
	if len(line) == 0 || line[0] != '{' {
		return false
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return false
	}

	for _, key := range []string{"msg", "message", "text"} {
		if v, ok := data[key].(string); ok {
			entry.Message = v
			break
		}
	}

	for _, key := range []string{"level", "severity", "lvl"} {
		if v, ok := data[key].(string); ok {
			entry.Level = config.ParseLevel(v)
			break
		}
	}

	if v, ok := data["source"].(string); ok {
		entry.Source = v
	}

	// Store remaining string fields; stacks often arrive here
	for k, v := range data {
		switch k {
		case "msg", "message", "text", "level", "severity", "lvl", "source":
			continue
		default:
			if s, ok := v.(string); ok {
				if entry.Fields == nil {
					entry.Fields = make(map[string]string)
				}
				entry.Fields[k] = s
			}
		}
	}

	return true
}

// levelPattern matches common log level strings.
var levelPattern = regexp.MustCompile(`(?i)\b(TRACE|DEBUG|INFO|WARN(?:ING)?|ERROR|FATAL|CRITICAL)\b`)

// extractLevel extracts the log level from a generic line.
func extractLevel(line string) config.LogLevel {
	match := levelPattern.FindString(line)
	if match == "" {
		return config.LevelUnknown
	}
	return config.ParseLevel(match)
}
