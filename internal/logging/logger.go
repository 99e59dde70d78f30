// Package logging declares the component-tagged Logger used across
// minihost and backs it with zap.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the component-tagged logger every package accepts.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// ZapLogger implements Logger on top of zap, tagging each entry with a
// component field.
type ZapLogger struct {
	base *zap.Logger
}

var (
	_ Logger = (*ZapLogger)(nil)
	_ Logger = NoopLogger{}
)

type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

func DefaultConfig() Config {
	return Config{Level: "info", OutputPaths: []string{"stdout"}}
}

func New(cfg Config) (*ZapLogger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encodingFormat(cfg.Development),
		EncoderConfig:     encoderConfig(cfg.Development),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: !cfg.Development,
	}
	base, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{base: base}, nil
}

// NewWithCore wraps an existing core; tests pass an observer core.
func NewWithCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{base: zap.New(core)}
}

// Nop discards everything.
func Nop() *ZapLogger { return &ZapLogger{base: zap.NewNop()} }

func (l *ZapLogger) Infof(component string, format string, args ...interface{}) {
	l.base.Info(fmt.Sprintf(format, args...), zap.String("component", component))
}

func (l *ZapLogger) Errorf(component string, format string, args ...interface{}) {
	l.base.Error(fmt.Sprintf(format, args...), zap.String("component", component))
}

// Zap exposes the underlying logger for libraries that take one.
func (l *ZapLogger) Zap() *zap.Logger { return l.base }

func (l *ZapLogger) Sync() error { return l.base.Sync() }

func encodingFormat(development bool) string {
	if development {
		return "console"
	}
	return "json"
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
