package cmd

import (
	"fmt"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var filterCmd = &cobra.Command{
	Use:   "filter [flags] <file...>",
	Short: "Filter log files through the suppression pipeline",
	Long: `Run one or more log files through the suppression pipeline:
noise-matching lines are dropped, credential-matching content is redacted,
and everything else is printed in the configured format.

Examples:
  quell filter app.log
  quell filter --level warn app.log
  quell filter --stats 'logs/*.log'
  quell filter --format json app.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringP("level", "l", "", "minimum log level to keep (trace, debug, info, warn, error)")
	filterCmd.Flags().Bool("stats", false, "append a suppression summary after the filtered output")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	levelStr, _ := cmd.Flags().GetString("level")
	withStats, _ := cmd.Flags().GetBool("stats")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	minLevel, err := resolveMinLevel(cfg, levelStr)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, minLevel)
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	var kept []config.LogEntry
	for _, file := range files {
		p.logger.Debug("filtering", file)
		entries, err := p.runner.ProcessFile(file)
		if err != nil {
			return fmt.Errorf("failed to process %s: %w", file, err)
		}
		kept = append(kept, entries...)
	}

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	if err := writer.WriteEntries(kept); err != nil {
		return err
	}

	if withStats {
		fmt.Fprintln(cmd.OutOrStdout())
		return writer.WriteStats(p.stats.Snapshot())
	}
	return nil
}
