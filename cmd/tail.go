package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/output"
	"github.com/bimmerbailey/quell/internal/stream"
	"github.com/spf13/cobra"
)

var tailCmd = &cobra.Command{
	Use:   "tail [flags] <file>",
	Short: "Live-tail a log file through the suppression pipeline",
	Long: `Watch a log file in real-time, similar to 'tail -f', but with every
line run through the suppression pipeline first: noise is dropped,
credentials are redacted, and surviving lines are colored by severity.

Examples:
  quell tail /var/log/app.log
  quell tail --level error /var/log/app.log
  quell tail --follow-rotate /var/log/app.log`,
	Args: cobra.ExactArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringP("level", "l", "", "minimum log level to display (trace, debug, info, warn, error)")
	tailCmd.Flags().IntP("lines", "n", 10, "number of initial lines to show")
	tailCmd.Flags().Bool("no-follow", false, "print last N lines and exit (don't follow)")
	tailCmd.Flags().Bool("follow-rotate", false, "follow through log rotations (continue when file is renamed/removed)")
	tailCmd.Flags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	levelStr, _ := cmd.Flags().GetString("level")
	lines, _ := cmd.Flags().GetInt("lines")
	noFollow, _ := cmd.Flags().GetBool("no-follow")
	followRotate, _ := cmd.Flags().GetBool("follow-rotate")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

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

	colorMode := output.ColorAuto
	if noColor {
		colorMode = output.ColorNever
	}

	writer := output.New(os.Stdout, output.FormatText)
	outputFunc := func(entry config.LogEntry) error {
		return writer.WriteColoredEntry(entry, colorMode)
	}

	tailer := stream.NewTailer(p.runner, stream.TailOptions{
		FilePath:     filePath,
		Lines:        lines,
		Follow:       !noFollow,
		FollowRotate: followRotate,
		OutputFunc:   outputFunc,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tailer.Run(ctx); err != nil {
		return err
	}

	snapshot := p.stats.Snapshot()
	if snapshot.TotalSuppressed > 0 {
		p.logger.Info("suppressed", snapshot.TotalSuppressed, "lines,", snapshot.UniqueCount, "distinct")
	}
	return nil
}
