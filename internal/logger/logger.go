// Package logger
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sysinfo-agent/internal/config"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Sync() error
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func New(cfg *config.Config) Logger {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.DisableStacktrace = true
	zcfg.Sampling = nil

	if cfg.LogFormat != "json" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	l, err := zcfg.Build()
	if err != nil {
		l = zap.NewExample()
	}

	return &zapLogger{s: l.Sugar()}
}

// Wrap adapts an existing zap logger, mainly for tests using zaptest/observer.
func Wrap(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar()}
}

func NewNop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l *zapLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
func (l *zapLogger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{s: l.s.With(args...)}
}

func (l *zapLogger) Sync() error {
	return l.s.Sync()
}
