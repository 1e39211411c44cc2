// Package logging sets up the structured debug log.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "horario-debug.log"

// New returns a JSON logger writing to path when enabled, or a no-op
// logger otherwise. The returned function flushes buffered entries.
func New(enabled bool, path string) (*zap.Logger, func(), error) {
	if !enabled {
		return zap.NewNop(), func() {}, nil
	}
	if path == "" {
		path = DebugLogPath
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("creating debug log: %w", err)
	}
	logger.Debug("debug_start", zap.String("log_file", path))

	return logger, func() {
		logger.Debug("debug_end")
		_ = logger.Sync()
	}, nil
}
