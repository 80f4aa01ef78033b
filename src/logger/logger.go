package logger

import (
	"os"
	"strings"

	"price-ticker/src/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// -----------------------------------------------------------------------------

// Logger provides leveled, named logging on top of zap
type Logger struct {
	name  string
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance. cfg may be nil (INFO level).
func NewLogger(cfg *models.MConfig, name string) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg != nil {
		level.SetLevel(ParseLevel(cfg.LogLevel))
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		level,
	)

	return &Logger{
		name:  name,
		sugar: zap.New(core).Named(name).Sugar(),
		level: level,
	}
}

// -----------------------------------------------------------------------------

// NewNopLogger returns a Logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{
		name:  "nop",
		sugar: zap.NewNop().Sugar(),
		level: zap.NewAtomicLevelAt(zapcore.FatalLevel),
	}
}

// -----------------------------------------------------------------------------

// Named returns a child logger sharing the same core and level
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		name:  l.name + "." + name,
		sugar: l.sugar.Named(name),
		level: l.level,
	}
}

// -----------------------------------------------------------------------------

// ParseLevel maps the config log_level values to zap levels
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARNING", "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs warning messages
func (l *Logger) Warning(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// -----------------------------------------------------------------------------

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
