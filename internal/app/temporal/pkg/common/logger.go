package common

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new zap logger with appropriate configuration
func NewLogger(development bool) (*zap.Logger, error) {
	var config zap.Config

	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	return config.Build()
}

// MustNewLogger creates a new logger and panics if it fails
func MustNewLogger(development bool) *zap.Logger {
	logger, err := NewLogger(development)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}

// ZapAdapter adapts a zap logger to the Temporal SDK logger interface.
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter wraps logger for use as a Temporal client logger.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger}
}

func (a *ZapAdapter) Debug(msg string, keyvals ...interface{}) {
	a.logger.Debug(msg, toZapFields(keyvals)...)
}

func (a *ZapAdapter) Info(msg string, keyvals ...interface{}) {
	a.logger.Info(msg, toZapFields(keyvals)...)
}

func (a *ZapAdapter) Warn(msg string, keyvals ...interface{}) {
	a.logger.Warn(msg, toZapFields(keyvals)...)
}

func (a *ZapAdapter) Error(msg string, keyvals ...interface{}) {
	a.logger.Error(msg, toZapFields(keyvals)...)
}

func toZapFields(keyvals []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		if key, ok := keyvals[i].(string); ok {
			fields = append(fields, zap.Any(key, keyvals[i+1]))
		}
	}
	return fields
}
