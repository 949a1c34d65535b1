package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SMSClient sends text messages through the Twilio Messages API.
type SMSClient struct {
	cfg    SMSConfig
	client *http.Client
}

func NewSMSClient(cfg SMSConfig, httpClient *http.Client) *SMSClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSMSBaseURL
	}
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient()
	}
	return &SMSClient{cfg: cfg, client: httpClient}
}

// Send ignores msg.Subject; SMS has no subject line.
func (c *SMSClient) Send(ctx context.Context, msg Message) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}
	if msg.To == "" || msg.Body == "" {
		return ErrEmptyMessage
	}

	form := url.Values{}
	form.Set("To", msg.To)
	form.Set("From", c.cfg.From)
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(c.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms provider returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	logger.Debug("transport: sms sent", "to", msg.To)
	return nil
}
