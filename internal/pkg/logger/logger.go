package logger

import (
	"fmt"
	"sync"

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

// Logger keeps the printf-style API used across handlers on top of zap.
type Logger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New builds a logger for the given environment. Production writes JSON,
// everything else writes a coloured console format. levelOverride, when
// non-empty, must be one of debug, info, warn, error.
func New(env, levelOverride string) (*Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if levelOverride != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(levelOverride)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelOverride, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	base, err := cfg.Build(zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return wrap(base, cfg.Level), nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return wrap(zap.NewNop(), zap.NewAtomicLevelAt(zapcore.InfoLevel))
}

// FromZap wraps an existing zap logger.
func FromZap(base *zap.Logger) *Logger {
	return wrap(base, zap.NewAtomicLevelAt(zapcore.DebugLevel))
}

func wrap(base *zap.Logger, level zap.AtomicLevel) *Logger {
	return &Logger{base: base, sugar: base.Sugar(), level: level}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }
func (l *Logger) Fatal(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }

// With returns a child logger carrying the given structured fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	child := l.base.With(fields...)
	return &Logger{base: child, sugar: child.Sugar(), level: l.level}
}

// Structured exposes the underlying zap logger.
func (l *Logger) Structured() *zap.Logger {
	return l.base
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level)
}

// GetLevel returns current logging level
func (l *Logger) GetLevel() Level {
	return l.level.Level()
}

func (l *Logger) Sync() error {
	return l.base.Sync()
}

var (
	mu            sync.RWMutex
	defaultLogger = NewNop()
)

// SetDefault replaces the global logger used by the package-level helpers.
func SetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// L returns the global logger.
func L() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func Debug(format string, v ...interface{}) { L().Debug(format, v...) }
func Info(format string, v ...interface{})  { L().Info(format, v...) }
func Warn(format string, v ...interface{})  { L().Warn(format, v...) }
func Error(format string, v ...interface{}) { L().Error(format, v...) }
func Fatal(format string, v ...interface{}) { L().Fatal(format, v...) }

// SetGlobalLevel sets the level for the global logger
func SetGlobalLevel(level Level) {
	L().SetLevel(level)
}
