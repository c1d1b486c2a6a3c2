package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestPatternsListsEverything(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{Use: "patterns"}
	cmd.SetOut(&out)

	if err := runPatterns(cmd, nil); err != nil {
		t.Fatalf("runPatterns() error = %v", err)
	}

	output := out.String()

	for _, name := range []string{"jwt", "bearer", "token_kv", "extension_origin", "resize_observer"} {
		if !strings.Contains(output, name) {
			t.Errorf("expected pattern %q in listing, got:\n%s", name, output)
		}
	}
	if !strings.Contains(output, "sensitive") || !strings.Contains(output, "noise") {
		t.Errorf("expected both categories in listing, got:\n%s", output)
	}
	if !strings.Contains(output, "yes") {
		t.Errorf("expected default markers in listing, got:\n%s", output)
	}
}
