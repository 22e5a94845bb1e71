package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes codes to the log instead of delivering them. Development only.
type LogSender struct {
	channel string
	logger  *zap.SugaredLogger
}

func NewLogSender(channel string, logger *zap.SugaredLogger) *LogSender {
	return &LogSender{channel: channel, logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, code string) error {
	s.logger.Warnw("delivery channel not configured, logging code", "channel", s.channel, "to", to, "code", code)
	return nil
}
