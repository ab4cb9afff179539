package email

import (
	"context"

	"go.uber.org/zap"
)

// LogSender records messages instead of delivering them. Used in development
// when no email backend is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender builds the log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email (log backend)",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
	)
	return nil
}
