package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/PhamNghia11/career-web/pkg/transport"
)

// InsecureJWTSecret is the built-in default, accepted only in development.
const InsecureJWTSecret = "supersecretkey"

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	AppURL         string        `yaml:"app_url"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`

	Storage StorageConfig           `yaml:"storage"`
	OTP     OTPConfig               `yaml:"otp"`
	Mail    MailConfig              `yaml:"mail"`
	SMS     transport.SMSConfig     `yaml:"sms"`
	Breaker transport.BreakerConfig `yaml:"breaker"`
	Workers WorkerConfig            `yaml:"workers"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver"`
	DatabasePath  string `yaml:"database_path"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

type OTPConfig struct {
	RequestsPerHour int           `yaml:"requests_per_hour"`
	Burst           int           `yaml:"burst"`
	SendTimeout     time.Duration `yaml:"send_timeout"`
}

type MailConfig struct {
	transport.EmailConfig `yaml:",inline"`
	// OperatorEmail receives account verification notices
	OperatorEmail string `yaml:"operator_email"`
}

type WorkerConfig struct {
	Count       int           `yaml:"count"`
	QueueSize   int           `yaml:"queue_size"`
	TaskTimeout time.Duration `yaml:"task_timeout"`
}

// LoadConfig builds the configuration from defaults, PORTAL_* environment
// variables and, when path is set, a YAML file that overrides both.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("PORTAL_ADDR", ":8080"),
		JWTSecret:      getEnv("PORTAL_JWT_SECRET", InsecureJWTSecret),
		APITimeout:     15 * time.Second,
		TokenDuration:  1 * time.Hour,
		AppURL:         getEnv("PORTAL_APP_URL", "http://localhost:3000"),
		MigrateOnStart: getEnv("PORTAL_MIGRATE_ON_START", "true") == "true",
		Storage: StorageConfig{
			Driver:        getEnv("PORTAL_STORAGE_DRIVER", DriverSQLite),
			DatabasePath:  getEnv("PORTAL_DATABASE_PATH", "portal.db"),
			MongoURI:      getEnv("PORTAL_MONGO_URI", ""),
			MongoDatabase: getEnv("PORTAL_MONGO_DATABASE", "gdu_career"),
		},
		OTP: OTPConfig{
			RequestsPerHour: 5,
			Burst:           3,
			SendTimeout:     10 * time.Second,
		},
		Mail: MailConfig{
			EmailConfig: transport.EmailConfig{
				BaseURL:     getEnv("PORTAL_MAIL_BASE_URL", transport.DefaultEmailBaseURL),
				APIKey:      getEnv("PORTAL_BREVO_API_KEY", ""),
				SenderEmail: getEnv("PORTAL_SENDER_EMAIL", ""),
				SenderName:  getEnv("PORTAL_SENDER_NAME", "GDU Career Portal"),
			},
			OperatorEmail: getEnv("PORTAL_OPERATOR_EMAIL", ""),
		},
		SMS: transport.SMSConfig{
			BaseURL:    getEnv("PORTAL_SMS_BASE_URL", transport.DefaultSMSBaseURL),
			AccountSID: getEnv("PORTAL_TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("PORTAL_TWILIO_AUTH_TOKEN", ""),
			From:       getEnv("PORTAL_TWILIO_FROM", ""),
		},
		Breaker: transport.DefaultBreakerConfig(),
		Workers: WorkerConfig{Count: 2, QueueSize: 64, TaskTimeout: 15 * time.Second},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects unsafe or inconsistent settings and fills defaults for
// the optional sections.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == InsecureJWTSecret && os.Getenv("PORTAL_ENV") != "development" {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set PORTAL_JWT_SECRET or PORTAL_ENV=development"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = time.Hour
	}

	switch strings.ToLower(c.Storage.Driver) {
	case "", DriverSQLite:
		c.Storage.Driver = DriverSQLite
		if c.Storage.DatabasePath == "" {
			errs = append(errs, errors.New("storage.database_path is required for sqlite"))
		}
	case DriverMongo:
		c.Storage.Driver = DriverMongo
		if c.Storage.MongoURI == "" {
			errs = append(errs, errors.New("storage.mongo_uri is required for mongo"))
		}
		if c.Storage.MongoDatabase == "" {
			c.Storage.MongoDatabase = "gdu_career"
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	if c.OTP.SendTimeout <= 0 {
		c.OTP.SendTimeout = 10 * time.Second
	}
	if c.OTP.RequestsPerHour < 0 {
		errs = append(errs, errors.New("otp.requests_per_hour must not be negative"))
	}
	if c.OTP.Burst <= 0 {
		c.OTP.Burst = 1
	}

	if c.Mail.BaseURL == "" {
		c.Mail.BaseURL = transport.DefaultEmailBaseURL
	}
	if c.SMS.BaseURL == "" {
		c.SMS.BaseURL = transport.DefaultSMSBaseURL
	}

	def := transport.DefaultBreakerConfig()
	if c.Breaker.MaxFailures == 0 {
		c.Breaker.MaxFailures = def.MaxFailures
	}
	if c.Breaker.Reset <= 0 {
		c.Breaker.Reset = def.Reset
	}

	if c.Workers.Count <= 0 {
		c.Workers.Count = 2
	}
	if c.Workers.QueueSize <= 0 {
		c.Workers.QueueSize = 64
	}
	if c.Workers.TaskTimeout <= 0 {
		c.Workers.TaskTimeout = 15 * time.Second
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
