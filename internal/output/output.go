// Package output provides formatted output rendering for filtered log
// entries and suppression statistics. It supports text, JSON, and table
// formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/intercept"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// WriteEntries outputs a slice of log entries in the configured format.
func (wr *Writer) WriteEntries(entries []config.LogEntry) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(entries)
	case FormatTable:
		return wr.writeTable(entries)
	default:
		return wr.writeText(entries)
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (wr *Writer) writeText(entries []config.LogEntry) error {
	for _, e := range entries {
		fmt.Fprintln(wr.w, e.Raw)
	}
	return nil
}

func (wr *Writer) writeTable(entries []config.LogEntry) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tLEVEL\tMESSAGE")
	fmt.Fprintln(tw, "----\t-----\t-------")
	for _, e := range entries {
		msg := e.Message
		if msg == "" {
			msg = e.Raw
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Line, e.Level, msg)
	}
	return tw.Flush()
}

// WriteStats outputs a suppression summary in the configured format.
func (wr *Writer) WriteStats(snapshot intercept.Snapshot) error {
	if wr.format == FormatJSON {
		return wr.WriteJSON(snapshot)
	}

	fmt.Fprintf(wr.w, "Total Suppressed: %d\n", snapshot.TotalSuppressed)
	fmt.Fprintf(wr.w, "Distinct Messages: %d\n", snapshot.UniqueCount)
	if len(snapshot.Recent) > 0 {
		fmt.Fprintln(wr.w, "Recent:")
		for _, msg := range snapshot.Recent {
			fmt.Fprintf(wr.w, "  %s\n", msg)
		}
	}
	return nil
}

// WriteColoredEntry writes a log entry to the writer with color based on ColorMode.
func (wr *Writer) WriteColoredEntry(entry config.LogEntry, mode ColorMode) error {
	colorize := ShouldColorize(mode, wr.w)
	line := entry.Raw
	if colorize {
		line = ColorizeLine(entry.Level, line)
	}
	_, err := fmt.Fprintln(wr.w, line)
	return err
}
