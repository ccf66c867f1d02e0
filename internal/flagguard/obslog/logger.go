// Package obslog builds the zap.SugaredLogger every flagguard component
// takes as a constructor argument. Unlike the teacher's package-global
// singleton, New is called once by cmd/flagguard (or an embedding
// program) and the result is threaded through explicitly, so tests can swap in an
// observed or discarding logger without a package-level var.
package obslog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the tee'd console+file logger.
type Options struct {
	// Level is one of zap's level names: debug, info, warn, error.
	// Empty defaults to "info".
	Level string
	// FilePath is where the development-format file sink writes. Empty
	// disables the file sink and logs to console only.
	FilePath string
}

// New builds a SugaredLogger that writes structured console output and,
// if FilePath is set, tees to a development-format log file — the same
// tee-to-console-and-file shape the teacher's logger.go builds, but
// parameterized and returned rather than stashed in a package var.
func New(opts Options) (*zap.SugaredLogger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	consoleEncoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.Lock(zapcore.AddSync(os.Stdout)), level)

	if opts.FilePath == "" {
		return zap.New(consoleCore).Sugar(), nil
	}

	fileConfig := zap.NewDevelopmentConfig()
	fileConfig.OutputPaths = []string{opts.FilePath}
	fileConfig.Level = zap.NewAtomicLevelAt(level)
	fileLogger, err := fileConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("obslog: building file sink %q: %w", opts.FilePath, err)
	}

	tee := zapcore.NewTee(fileLogger.Core(), consoleCore)
	return zap.New(tee).Sugar(), nil
}

// NewNop returns a logger that discards everything, for tests that
// don't want analysis components to require a live *zap.SugaredLogger.
func NewNop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func parseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.Set(name); err != nil {
		return 0, fmt.Errorf("obslog: invalid level %q: %w", name, err)
	}
	return level, nil
}
