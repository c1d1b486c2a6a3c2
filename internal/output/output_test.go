package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/intercept"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"table", FormatTable},
		{"", FormatText},
		{"bogus", FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func sampleEntries() []config.LogEntry {
	return []config.LogEntry{
		{Raw: "INFO one", Level: config.LevelInfo, Message: "one", Line: 1},
		{Raw: "ERROR two", Level: config.LevelError, Message: "two", Line: 2},
	}
}

func TestWriteEntriesText(t *testing.T) {
	var buf bytes.Buffer
	wr := New(&buf, FormatText)

	if err := wr.WriteEntries(sampleEntries()); err != nil {
		t.Fatalf("WriteEntries() error = %v", err)
	}
	if got := buf.String(); got != "INFO one\nERROR two\n" {
		t.Errorf("text output = %q", got)
	}
}

func TestWriteEntriesJSON(t *testing.T) {
	var buf bytes.Buffer
	wr := New(&buf, FormatJSON)

	if err := wr.WriteEntries(sampleEntries()); err != nil {
		t.Fatalf("WriteEntries() error = %v", err)
	}

	var decoded []config.LogEntry
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[1].Level != config.LevelError {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteEntriesTable(t *testing.T) {
	var buf bytes.Buffer
	wr := New(&buf, FormatTable)

	if err := wr.WriteEntries(sampleEntries()); err != nil {
		t.Fatalf("WriteEntries() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "LINE") || !strings.Contains(out, "LEVEL") {
		t.Errorf("table missing header: %q", out)
	}
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "two") {
		t.Errorf("table missing row data: %q", out)
	}
}

func TestWriteStatsText(t *testing.T) {
	var buf bytes.Buffer
	wr := New(&buf, FormatText)

	snapshot := intercept.Snapshot{
		TotalSuppressed: 4,
		UniqueCount:     2,
		Recent:          []string{"resizeobserver loop limit exceeded"},
	}
	if err := wr.WriteStats(snapshot); err != nil {
		t.Fatalf("WriteStats() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Total Suppressed: 4") {
		t.Errorf("missing total: %q", out)
	}
	if !strings.Contains(out, "Distinct Messages: 2") {
		t.Errorf("missing unique count: %q", out)
	}
	if !strings.Contains(out, "resizeobserver loop limit exceeded") {
		t.Errorf("missing recent entry: %q", out)
	}
}

func TestWriteStatsJSON(t *testing.T) {
	var buf bytes.Buffer
	wr := New(&buf, FormatJSON)

	if err := wr.WriteStats(intercept.Snapshot{TotalSuppressed: 1, UniqueCount: 1}); err != nil {
		t.Fatalf("WriteStats() error = %v", err)
	}

	var decoded intercept.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.TotalSuppressed != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestShouldColorize(t *testing.T) {
	var buf bytes.Buffer

	if !ShouldColorize(ColorAlways, &buf) {
		t.Error("ColorAlways should colorize any writer")
	}
	if ShouldColorize(ColorNever, &buf) {
		t.Error("ColorNever should never colorize")
	}
	if ShouldColorize(ColorAuto, &buf) {
		t.Error("ColorAuto should not colorize a non-file writer")
	}
}

func TestColorizeLine(t *testing.T) {
	tests := []struct {
		level    config.LogLevel
		wantWrap bool
	}{
		{config.LevelTrace, true},
		{config.LevelDebug, true},
		{config.LevelInfo, false},
		{config.LevelWarn, true},
		{config.LevelError, true},
		{config.LevelUnknown, false},
	}

	for _, tt := range tests {
		got := ColorizeLine(tt.level, "line")
		wrapped := strings.HasPrefix(got, "\033[") && strings.HasSuffix(got, colorReset)
		if wrapped != tt.wantWrap {
			t.Errorf("ColorizeLine(%v) = %q, wrapped = %v, want %v", tt.level, got, wrapped, tt.wantWrap)
		}
	}
}

func TestWriteColoredEntry(t *testing.T) {
	var buf bytes.Buffer
	wr := New(&buf, FormatText)

	entry := config.LogEntry{Raw: "ERROR boom", Level: config.LevelError}
	if err := wr.WriteColoredEntry(entry, ColorAlways); err != nil {
		t.Fatalf("WriteColoredEntry() error = %v", err)
	}
	if got := buf.String(); got != colorRed+"ERROR boom"+colorReset+"\n" {
		t.Errorf("colored output = %q", got)
	}

	buf.Reset()
	if err := wr.WriteColoredEntry(entry, ColorNever); err != nil {
		t.Fatalf("WriteColoredEntry() error = %v", err)
	}
	if got := buf.String(); got != "ERROR boom\n" {
		t.Errorf("plain output = %q", got)
	}
}
