package logger

import (
	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
)

type noopLogger struct{}

// NewNoopLogger returns a logger that discards everything. Used in tests.
func NewNoopLogger() interfaces.Logger {
	return noopLogger{}
}

func (noopLogger) Debug(msg string, fields ...interfaces.Field) {}
func (noopLogger) Info(msg string, fields ...interfaces.Field)  {}
func (noopLogger) Warn(msg string, fields ...interfaces.Field)  {}
func (noopLogger) Error(msg string, fields ...interfaces.Field) {}
func (noopLogger) Fatal(msg string, fields ...interfaces.Field) {}

func (n noopLogger) WithFields(fields ...interfaces.Field) interfaces.Logger {
	return n
}
