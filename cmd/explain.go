package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/intercept"
	"github.com/bimmerbailey/quell/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var explainCmd = &cobra.Command{
	Use:   "explain [flags] <file...>",
	Short: "AI triage of what the suppression pipeline dropped",
	Long: `Run log files through the suppression pipeline, then send the
(already redacted) suppression summary to a local LLM and ask whether the
dropped messages look like genuine noise or like application errors that a
pattern is masking.

Only the bounded recent-suppressed buffer and the counters leave the
process; tokens and credentials are redacted before anything is sent.

Examples:
  quell explain app.log
  quell explain --model llama3.2 'logs/*.log'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().String("model", "", "override the configured LLM model")
	explainCmd.Flags().Duration("timeout", 2*time.Minute, "LLM request timeout")

	rootCmd.AddCommand(explainCmd)
}

const explainSystemPrompt = `You are a log triage assistant. You receive a summary of log
messages that a suppression pipeline dropped as noise (browser-extension
errors, known harmless warnings). Credentials are already redacted.

Judge whether the dropped messages are genuinely noise. Call out any
message that looks like a real application error a pattern may be masking.
Be brief and concrete.`

func runExplain(cmd *cobra.Command, args []string) error {
	model, _ := cmd.Flags().GetString("model")
	timeout, _ := cmd.Flags().GetDuration("timeout")

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

	snapshot := p.stats.Snapshot()
	if snapshot.TotalSuppressed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing was suppressed; nothing to explain.")
		return nil
	}

	provider, err := llm.NewProvider(cfg, newSlogLogger(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := provider.Heartbeat(ctx); err != nil {
		return fmt.Errorf("llm provider unavailable: %w", err)
	}

	opts := &llm.ChatOptions{
		Model:       model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	p.logger.Debug("sending suppression summary to llm", snapshot.TotalSuppressed, "suppressed")
	resp, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: explainSystemPrompt},
		{Role: "user", Content: buildExplainPrompt(snapshot)},
	}, opts)
	if err != nil {
		return fmt.Errorf("llm request failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(resp.Content))
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "model=%s tokens=%d\n", resp.Model, resp.TokensTotal)
	}
	return nil
}

// buildExplainPrompt renders the suppression snapshot for the LLM. The
// recent buffer is bounded and already redacted, so this stays small.
func buildExplainPrompt(snapshot intercept.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suppressed %d messages (%d distinct).\n\nMost recent suppressed messages:\n",
		snapshot.TotalSuppressed, snapshot.UniqueCount)
	for _, msg := range snapshot.Recent {
		fmt.Fprintf(&b, "- %s\n", msg)
	}
	return b.String()
}

// newSlogLogger builds the slog logger handed to the LLM provider.
func newSlogLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
