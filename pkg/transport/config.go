package transport

import "time"

// EmailConfig holds the Brevo transactional email settings.
type EmailConfig struct {
	// BaseURL is the API root, e.g. https://api.brevo.com
	BaseURL     string `yaml:"base_url" json:"base_url"`
	APIKey      string `yaml:"api_key" json:"-"`
	SenderEmail string `yaml:"sender_email" json:"sender_email"`
	SenderName  string `yaml:"sender_name" json:"sender_name"`
}

// Configured reports whether real delivery is possible.
func (c EmailConfig) Configured() bool {
	return c.APIKey != "" && c.SenderEmail != ""
}

// SMSConfig holds the Twilio messaging settings.
type SMSConfig struct {
	// BaseURL is the API root, e.g. https://api.twilio.com
	BaseURL    string `yaml:"base_url" json:"base_url"`
	AccountSID string `yaml:"account_sid" json:"account_sid"`
	AuthToken  string `yaml:"auth_token" json:"-"`
	From       string `yaml:"from" json:"from"`
}

func (c SMSConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

// BreakerConfig controls the circuit breaker around each provider.
type BreakerConfig struct {
	// MaxFailures opens the circuit after this many consecutive failures
	MaxFailures uint32 `yaml:"max_failures" json:"max_failures"`
	// Reset is how long the circuit stays open before a trial request
	Reset time.Duration `yaml:"reset" json:"reset"`
}

const (
	DefaultEmailBaseURL = "https://api.brevo.com"
	DefaultSMSBaseURL   = "https://api.twilio.com"
)

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		Reset:       30 * time.Second,
	}
}
