package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fileshred/internal/config"
)

// Logger writes leveled, structured log lines to stderr and optionally a file.
type Logger struct {
	zl   *zap.Logger
	file *os.File
}

// NewLogger builds a logger from cfg. The console only shows WARN and above
// unless verbose is set; the log file, if any, honours logging.level.
func NewLogger(cfg *config.Config, verbose bool) (*Logger, error) {
	level := parseLevel(cfg.Logging.Level)

	consoleLevel := zapcore.WarnLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), consoleLevel),
	}

	l := &Logger{}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Logging.File, err)
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(f),
			level,
		))
	}

	l.zl = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// NewWithZap wraps an existing zap logger, e.g. zaptest.NewLogger in tests.
func NewWithZap(zl *zap.Logger) *Logger {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Logger{zl: zl}
}

// Zap exposes the underlying logger for packages that log with zap fields.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// Log writes message at level with alternating key/value pairs.
func (l *Logger) Log(level, message string, keyvals ...interface{}) {
	s := l.zl.Sugar()
	switch strings.ToUpper(level) {
	case "DEBUG":
		s.Debugw(message, keyvals...)
	case "WARN":
		s.Warnw(message, keyvals...)
	case "ERROR":
		s.Errorw(message, keyvals...)
	default:
		s.Infow(message, keyvals...)
	}
}

func (l *Logger) Close() error {
	_ = l.zl.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
