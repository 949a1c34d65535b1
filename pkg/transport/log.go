package transport

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the package logger instead of delivering
// them. It backs development setups without provider credentials and logs
// the body, so it must not be used in production.
type LogSender struct {
	channel string
}

func NewLogSender(channel string) *LogSender {
	return &LogSender{channel: channel}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" || msg.Body == "" {
		return ErrEmptyMessage
	}
	logger.Debug("transport: mock delivery",
		slog.String("channel", s.channel),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body))
	return nil
}
