package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vulcu/terminal-commander/core"
	"github.com/vulcu/terminal-commander/host/config"
)

// newLogger builds the process logger and, when asked, routes the
// console's internal trace into it at debug level
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	// stdout may be the console itself
	zcfg.OutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	routeConsoleTrace(logger, cfg.Debug)
	return logger, nil
}

func routeConsoleTrace(logger *zap.Logger, enabled bool) {
	trace := logger.Named("console")
	core.SetDebugWriter(func(msg string) {
		trace.Debug(msg)
	})
	core.SetDebugEnabled(enabled)
}
