package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func writeTempFile(t *testing.T, dir string, name string, lines []string) string {
	path := filepath.Join(dir, name)
	content := []byte(joinLines(lines))
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func joinLines(lines []string) string {
	buf := bytes.Buffer{}
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return buf.String()
}

func newFilterTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "filter"}
	cmd.SetOut(out)
	cmd.Flags().StringP("level", "l", "", "minimum log level to keep")
	cmd.Flags().Bool("stats", false, "append a suppression summary")
	return cmd
}

func TestFilterDropsNoiseAndRedacts(t *testing.T) {
	viper.Reset()
	viper.Set("format", "text")

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", []string{
		"INFO user signed in",
		"ERROR ResizeObserver loop limit exceeded",
		"WARN auth retry with token=abc.def.ghi",
		"ERROR at chrome-extension://deadbeef/inject.js:3",
	})

	var out bytes.Buffer
	cmd := newFilterTestCmd(&out)

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	output := out.String()

	if !strings.Contains(output, "INFO user signed in") {
		t.Errorf("expected clean line to survive, got:\n%s", output)
	}
	if strings.Contains(output, "ResizeObserver") {
		t.Errorf("expected noise line to be dropped, got:\n%s", output)
	}
	if strings.Contains(output, "chrome-extension") {
		t.Errorf("expected extension line to be dropped, got:\n%s", output)
	}
	if strings.Contains(output, "abc.def.ghi") {
		t.Errorf("expected credential to be redacted, got:\n%s", output)
	}
	if !strings.Contains(output, "[TOKEN_REDACTED]") {
		t.Errorf("expected redaction marker, got:\n%s", output)
	}
}

func TestFilterLevelFlag(t *testing.T) {
	viper.Reset()
	viper.Set("format", "text")

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", []string{
		"DEBUG cache miss",
		"INFO user signed in",
		"ERROR request failed",
	})

	var out bytes.Buffer
	cmd := newFilterTestCmd(&out)
	if err := cmd.Flags().Set("level", "error"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	output := out.String()
	if strings.Contains(output, "DEBUG") || strings.Contains(output, "INFO") {
		t.Errorf("expected only error lines, got:\n%s", output)
	}
	if !strings.Contains(output, "ERROR request failed") {
		t.Errorf("expected error line to survive, got:\n%s", output)
	}
}

func TestFilterInvalidLevel(t *testing.T) {
	viper.Reset()

	var out bytes.Buffer
	cmd := newFilterTestCmd(&out)
	if err := cmd.Flags().Set("level", "loud"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := runFilter(cmd, []string{"whatever.log"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestFilterStatsFlag(t *testing.T) {
	viper.Reset()
	viper.Set("format", "text")

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", []string{
		"INFO fine",
		"ERROR ResizeObserver loop limit exceeded",
		"ERROR ResizeObserver loop limit exceeded",
	})

	var out bytes.Buffer
	cmd := newFilterTestCmd(&out)
	if err := cmd.Flags().Set("stats", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Total Suppressed: 2") {
		t.Errorf("expected suppression summary, got:\n%s", output)
	}
	if !strings.Contains(output, "Distinct Messages: 1") {
		t.Errorf("expected distinct count, got:\n%s", output)
	}
}

func TestFilterExtraNoisePattern(t *testing.T) {
	viper.Reset()
	viper.Set("format", "text")
	viper.Set("patterns.extra_noise", []string{`heartbeat ping`})

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", []string{
		"INFO heartbeat ping 42",
		"INFO user signed in",
	})

	var out bytes.Buffer
	cmd := newFilterTestCmd(&out)

	if err := runFilter(cmd, []string{file}); err != nil {
		t.Fatalf("runFilter() error = %v", err)
	}

	output := out.String()
	if strings.Contains(output, "heartbeat") {
		t.Errorf("expected configured noise pattern to drop line, got:\n%s", output)
	}
	if !strings.Contains(output, "user signed in") {
		t.Errorf("expected clean line to survive, got:\n%s", output)
	}
}

func TestFilterMissingFile(t *testing.T) {
	viper.Reset()

	var out bytes.Buffer
	cmd := newFilterTestCmd(&out)

	if err := runFilter(cmd, []string{filepath.Join(t.TempDir(), "absent.log")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
