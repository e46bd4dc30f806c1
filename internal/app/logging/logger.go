package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the encoder and minimum level of the process logger.
type Options struct {
	Development bool
	Level       string // debug, info, warn, error; empty keeps the preset default
}

// New creates the process-wide zap logger. Development mode logs colored
// console lines; production mode logs JSON.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	return config.Build()
}

// Must creates a logger and panics if it fails
func Must(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
