// Package logger provides the zap-backed and no-op implementations of
// interfaces.Logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
)

type zapLogger struct {
	logger *zap.Logger
}

// New builds a logger from the service configuration. Development gets a
// colored console encoder, everything else structured JSON. An unparseable
// level falls back to the encoder's default.
func New(environment, level string) interfaces.Logger {
	var cfg zap.Config
	if environment == "" || environment == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(l)
		}
	}

	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &zapLogger{logger: z}
}

func (l *zapLogger) Debug(msg string, fields ...interfaces.Field) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...interfaces.Field) {
	l.logger.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...interfaces.Field) {
	l.logger.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...interfaces.Field) {
	l.logger.Error(msg, zapFields(fields)...)
}

func (l *zapLogger) Fatal(msg string, fields ...interfaces.Field) {
	l.logger.Fatal(msg, zapFields(fields)...)
}

func (l *zapLogger) WithFields(fields ...interfaces.Field) interfaces.Logger {
	return &zapLogger{logger: l.logger.With(zapFields(fields)...)}
}

func zapFields(fields []interfaces.Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}
