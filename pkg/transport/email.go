package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EmailClient sends transactional email through the Brevo HTTP API.
type EmailClient struct {
	cfg    EmailConfig
	client *http.Client
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

func NewEmailClient(cfg EmailConfig, httpClient *http.Client) *EmailClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultEmailBaseURL
	}
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient()
	}
	return &EmailClient{cfg: cfg, client: httpClient}
}

func (c *EmailClient) Send(ctx context.Context, msg Message) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}
	if msg.To == "" || msg.Body == "" {
		return ErrEmptyMessage
	}

	body, err := json.Marshal(brevoSendRequest{
		Sender:      brevoAddress{Email: c.cfg.SenderEmail, Name: c.cfg.SenderName},
		To:          []brevoAddress{{Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v3/smtp/email"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	logger.Debug("transport: email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
