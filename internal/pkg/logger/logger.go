package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DEBUG = zapcore.DebugLevel
	INFO  = zapcore.InfoLevel
	WARN  = zapcore.WarnLevel
	ERROR = zapcore.ErrorLevel
	FATAL = zapcore.FatalLevel
)

type Logger struct {
	level zap.AtomicLevel
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a logger writing JSON in production and console output otherwise
func New(level Level, production bool) *Logger {
	atom := zap.NewAtomicLevelAt(level)

	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = atom
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}

	return &Logger{
		level: atom,
		base:  base,
		sugar: base.Sugar(),
	}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }
func (l *Logger) Fatal(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level)
}

// GetLevel returns current logging level
func (l *Logger) GetLevel() Level {
	return l.level.Level()
}

// Structured returns the underlying zap logger for field-based logging
func (l *Logger) Structured() *zap.Logger {
	return l.base.WithOptions(zap.AddCallerSkip(-1))
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.base.Sync()
}

// Global logger instance
var defaultLogger = New(INFO, false)

// Init replaces the global logger, typically once from main
func Init(level Level, production bool) {
	defaultLogger = New(level, production)
}

// Package-level functions for easy access
func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Info(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }

// L returns the global structured logger
func L() *zap.Logger { return defaultLogger.Structured() }

// Sync flushes the global logger
func Sync() error { return defaultLogger.Sync() }
