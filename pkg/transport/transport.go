// Package transport delivers outbound email and SMS messages through HTTP
// providers. Every sender reports success or failure synchronously.
package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

var (
	ErrCircuitOpen   = errors.New("transport circuit open")
	ErrNotConfigured = errors.New("transport not configured")
	ErrEmptyMessage  = errors.New("recipient and body are required")
)

// Message is a single outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// package-level logger for pkg/transport; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/transport. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// NewDefaultHTTPClient returns a client with conservative dial and TLS
// timeouts. The overall deadline comes from the request context.
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// NewEmailSender returns a breaker-guarded Brevo client, or a LogSender when
// the credentials are incomplete.
func NewEmailSender(cfg EmailConfig, br BreakerConfig, httpClient *http.Client) Sender {
	if !cfg.Configured() {
		logger.Warn("transport: email not configured, using log sender")
		return NewLogSender("email")
	}
	return NewBreaker("email", NewEmailClient(cfg, httpClient), br)
}

// NewSMSSender returns a breaker-guarded Twilio client, or a LogSender when
// the credentials are incomplete.
func NewSMSSender(cfg SMSConfig, br BreakerConfig, httpClient *http.Client) Sender {
	if !cfg.Configured() {
		logger.Warn("transport: sms not configured, using log sender")
		return NewLogSender("sms")
	}
	return NewBreaker("sms", NewSMSClient(cfg, httpClient), br)
}
