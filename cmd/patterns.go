package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/bimmerbailey/quell/internal/match"
	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the built-in classification patterns",
	Long: `List every built-in pattern with its category: sensitive patterns
redact, noise patterns suppress. Patterns marked default are active unless
the configuration selects a different set.`,
	Args: cobra.NoArgs,
	RunE: runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	defaults := make(map[string]bool)
	for _, name := range match.DefaultSensitivePatterns() {
		defaults[name] = true
	}
	for _, name := range match.DefaultNoisePatterns() {
		defaults[name] = true
	}

	names := make([]string, 0, len(match.BuiltInPatterns))
	for name := range match.BuiltInPatterns {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tDEFAULT\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t--------\t-------\t-----------")
	for _, name := range names {
		pattern := match.BuiltInPatterns[name]
		def := ""
		if defaults[name] {
			def = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pattern.Name, pattern.Category, def, pattern.Description)
	}
	return tw.Flush()
}
