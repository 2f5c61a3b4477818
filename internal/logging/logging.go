// Package logging sets up the zap file logger. The interactive shell owns
// stdout, so diagnostics go to a JSON log file instead.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the configured directory.
const FileName = "addrbook.log"

// Config selects where and how verbosely to log.
type Config struct {
	Dir   string
	Debug bool
}

// Setup opens <Dir>/addrbook.log for appending and returns a logger writing
// to it plus a cleanup func that flushes it. On failure it returns a Nop
// logger and the error; the returned logger is always usable.
func Setup(cfg Config) (*zap.Logger, func() error, error) {
	noop := func() error { return nil }

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return zap.NewNop(), noop, fmt.Errorf("logging: creating %s: %w", cfg.Dir, err)
	}
	path := filepath.Join(cfg.Dir, FileName)

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zc.Sampling = nil
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}

	l, err := zc.Build()
	if err != nil {
		return zap.NewNop(), noop, fmt.Errorf("logging: opening %s: %w", path, err)
	}

	l.Info("logger.initialized", zap.String("path", path), zap.Bool("debug", cfg.Debug))
	return l, l.Sync, nil
}
