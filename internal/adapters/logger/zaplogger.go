package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the ports.Logger interface on top of zap's
// sugared logger. Selected via LOG_BACKEND=zap.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a production zap logger at the given level.
func NewZapLogger(level LogLevel) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: zl.Sugar()}, nil
}

func zapLevel(l LogLevel) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func flatten(fields []map[string]interface{}) []interface{} {
	var kv []interface{}
	for _, m := range fields {
		for k, v := range m {
			kv = append(kv, k, v)
		}
	}
	return kv
}

// Debug logs a message at Debug level.
func (z *ZapLogger) Debug(_ context.Context, msg string, fields ...map[string]interface{}) {
	z.sugar.Debugw(msg, flatten(fields)...)
}

// Info logs a message at Info level.
func (z *ZapLogger) Info(_ context.Context, msg string, fields ...map[string]interface{}) {
	z.sugar.Infow(msg, flatten(fields)...)
}

// Warn logs a message at Warning level.
func (z *ZapLogger) Warn(_ context.Context, msg string, fields ...map[string]interface{}) {
	z.sugar.Warnw(msg, flatten(fields)...)
}

// Error logs an error message at Error level.
func (z *ZapLogger) Error(_ context.Context, err error, msg string, fields ...map[string]interface{}) {
	kv := flatten(fields)
	if err != nil {
		kv = append(kv, "error", err)
	}
	z.sugar.Errorw(msg, kv...)
}

// Sync flushes any buffered log entries.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}
