package cmd

import (
	"fmt"
	"os"

	"github.com/bimmerbailey/quell/internal/config"
	"github.com/bimmerbailey/quell/internal/intercept"
	"github.com/bimmerbailey/quell/internal/match"
	"github.com/bimmerbailey/quell/internal/output"
	"github.com/bimmerbailey/quell/internal/proxy"
	"github.com/bimmerbailey/quell/internal/sanitize"
	"github.com/bimmerbailey/quell/internal/stream"
	"github.com/spf13/viper"
)

// pipeline bundles one process's explicitly constructed service instances.
// Commands build exactly one and pass it by reference; there is no ambient
// singleton state.
type pipeline struct {
	cfg         *config.Config
	matcher     *match.Matcher
	sanitizer   *sanitize.Sanitizer
	stats       *intercept.Stats
	interceptor *intercept.Interceptor
	runner      *stream.Runner
	logger      *proxy.Logger
}

// loadConfig unmarshals the viper-backed configuration.
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}

// newPipeline wires matcher, sanitizer, stats, runner, and the tool's own
// sanitizing logger from the configuration.
func newPipeline(cfg *config.Config, minLevel config.LogLevel) (*pipeline, error) {
	opts := []match.Option{
		match.WithSensitivePatterns(cfg.Patterns.Sensitive),
		match.WithNoisePatterns(cfg.Patterns.Noise),
	}
	matcher := match.New(opts...)

	for _, expr := range cfg.Patterns.ExtraSensitive {
		if err := matcher.Add(match.CategorySensitive, "config", expr); err != nil {
			return nil, err
		}
	}
	for _, expr := range cfg.Patterns.ExtraNoise {
		if err := matcher.Add(match.CategoryNoise, "config", expr); err != nil {
			return nil, err
		}
	}

	sanitizer := sanitize.New(matcher)
	stats := intercept.NewStats(cfg.RecentBufferSize())

	logger := proxy.NewLogger(
		proxy.NewWriterSink(os.Stderr, output.ColorAuto),
		sanitizer,
		proxy.WithMinimumLevel(diagnosticLevel(cfg)),
	)
	if cfg.ProductionMode {
		logger.OptimizeForProduction()
	}

	interceptor := intercept.New("noise", matcher, sanitizer, stats,
		intercept.WithFailureLogger(logger))
	dispatcher := intercept.NewDispatcher()
	dispatcher.Register(interceptor)

	runner := stream.NewRunner(dispatcher, sanitizer,
		stream.WithMinimumLevel(minLevel))

	return &pipeline{
		cfg:         cfg,
		matcher:     matcher,
		sanitizer:   sanitizer,
		stats:       stats,
		interceptor: interceptor,
		runner:      runner,
		logger:      logger,
	}, nil
}

// diagnosticLevel picks how chatty the tool's own stderr diagnostics are.
func diagnosticLevel(cfg *config.Config) config.LogLevel {
	if cfg.Verbose {
		return config.LevelDebug
	}
	return config.LevelWarn
}

// resolveMinLevel combines the --level flag with the configured minimum.
// The flag wins when set.
func resolveMinLevel(cfg *config.Config, flagLevel string) (config.LogLevel, error) {
	if flagLevel != "" {
		level := config.ParseLevel(flagLevel)
		if level == config.LevelUnknown {
			return level, fmt.Errorf("invalid level: %s", flagLevel)
		}
		return level, nil
	}
	return cfg.EffectiveMinimumLevel(), nil
}
