// Package logger builds the application's zap logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/actualize/actualize/internal/config"
)

// New returns a production logger when env is "production" and a
// development logger otherwise, at the configured level.
func New(cfg *config.Config) (*zap.Logger, error) {
	zc, err := zapConfig(cfg)
	if err != nil {
		return nil, err
	}
	return zc.Build()
}

// NewFile is New with output redirected to path, for when the terminal UI owns stdout and stderr.
func NewFile(cfg *config.Config, path string) (*zap.Logger, error) {
	zc, err := zapConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	return zc.Build()
}

func zapConfig(cfg *config.Config) (zap.Config, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("parse log level: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc, nil
}
