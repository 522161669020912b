package adapters

import (
	"go.uber.org/zap"
)

// ZapLoggerAdapter implements LoggerAdapter on top of a zap.SugaredLogger,
// for applications that already route their logs through zap.
type ZapLoggerAdapter struct {
	logger *zap.SugaredLogger
}

// Ensure ZapLoggerAdapter implements LoggerAdapter interface
var _ LoggerAdapter = (*ZapLoggerAdapter)(nil)

// NewZapLoggerAdapter wraps an existing zap logger.
func NewZapLoggerAdapter(logger *zap.Logger) *ZapLoggerAdapter {
	return &ZapLoggerAdapter{logger: logger.Named("outlit").Sugar()}
}

func (z *ZapLoggerAdapter) Debug(message string, args ...interface{}) {
	z.logger.Debugf(message, args...)
}

func (z *ZapLoggerAdapter) Info(message string, args ...interface{}) {
	z.logger.Infof(message, args...)
}

func (z *ZapLoggerAdapter) Warn(message string, args ...interface{}) {
	z.logger.Warnf(message, args...)
}

func (z *ZapLoggerAdapter) Error(message string, args ...interface{}) {
	z.logger.Errorf(message, args...)
}
