package cmd

import (
	"fmt"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] <file...>",
	Short: "Show what the suppression pipeline would drop",
	Long: `Run log files through the suppression pipeline and report only the
suppression counters: total dropped lines, distinct dropped messages, and
the most recent dropped messages (already redacted).

Examples:
  quell stats app.log
  quell stats --format json 'logs/*.log'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, config.LevelTrace)
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	for _, file := range files {
		if _, err := p.runner.ProcessFile(file); err != nil {
			return fmt.Errorf("failed to process %s: %w", file, err)
		}
	}

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	return writer.WriteStats(p.stats.Snapshot())
}
