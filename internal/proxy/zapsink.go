package proxy

import (
	"github.com/bimmerbailey/quell/internal/config"
	"go.uber.org/zap"
)

// ZapSink forwards calls to a zap logger, for hosts that already run one.
// Trace maps to zap's debug level.
type ZapSink struct {
	logger *zap.SugaredLogger
}

// NewZapSink creates a ZapSink from a *zap.Logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Sugar()}
}

// Emit implements Sink.
func (s *ZapSink) Emit(level config.LogLevel, args []any) {
	switch level {
	case config.LevelTrace, config.LevelDebug:
		s.logger.Debug(args...)
	case config.LevelInfo:
		s.logger.Info(args...)
	case config.LevelWarn:
		s.logger.Warn(args...)
	default:
		s.logger.Error(args...)
	}
}
