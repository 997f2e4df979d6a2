// Package diag provides the structured logger shared by every pipeline
// stage and the CLI. It never participates in program control flow —
// the pipeline's behavior never depends on whether logging is enabled.
package diag

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.Logger with the handful of fields this project
// logs repeatedly (source path, stage name), so call sites read as
// `diag.L().Stage("resolve").Info(...)` instead of repeating
// zap.String("stage", ...) everywhere.
type Logger struct{ z *zap.Logger }

var global = New(false)

// New builds a Logger. verbose selects debug-level output with
// human-readable console encoding; the default is info-level JSON,
// suited to being piped into log aggregation.
func New(verbose bool) *Logger {
	level := zapcore.InfoLevel
	encoding := "json"
	if verbose {
		level = zapcore.DebugLevel
		encoding = "console"
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build()
	if err != nil {
		// zap.Config.Build only fails on a malformed config literal; ours
		// is fixed, so fall back to zap's own safety net rather than
		// panicking the whole CLI over a logger.
		z = zap.NewNop()
		_ = err
	}
	return &Logger{z: z}
}

// SetGlobal replaces the package-level default logger, used by cmd/yasniy
// once it has parsed the --verbose flag.
func SetGlobal(l *Logger) { global = l }

// L returns the current global logger.
func L() *Logger { return global }

// Stage returns a child logger tagged with the pipeline stage name
// (lex, parse, resolve, typecheck, compile, run, pack).
func (l *Logger) Stage(name string) *Logger {
	return &Logger{z: l.z.With(zap.String("stage", name))}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)   { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)   { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field)  { l.z.Error(msg, fields...) }

// Sync flushes buffered log entries; call from main before exit.
func (l *Logger) Sync() error {
	if err := l.z.Sync(); err != nil {
		// Syncing stderr spuriously errors on some platforms (ENOTTY) —
		// not actionable, so swallow it rather than surface a fake
		// shutdown failure.
		if isBenignSyncErr(err) {
			return nil
		}
		return err
	}
	return nil
}

func isBenignSyncErr(err error) bool {
	return err.Error() == os.ErrInvalid.Error() ||
		err.Error() == "sync /dev/stderr: inappropriate ioctl for device" ||
		err.Error() == "sync /dev/stderr: invalid argument"
}
