// Package otp issues and checks one-time passcodes that prove control of an
// account's email address or phone number.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/PhamNghia11/career-web/internal/jobs"
	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/notify"
	"github.com/PhamNghia11/career-web/pkg/repository"
	"github.com/PhamNghia11/career-web/pkg/transport"
)

// ChallengeTTL is the fixed lifetime of a challenge.
const ChallengeTTL = 5 * time.Minute

// TaskOperatorNotice is the dispatcher task type that emails the operator
// after an email address is verified.
const TaskOperatorNotice = "otp.operator_notice"

const (
	codeDigits  = 6
	codeSpace   = 1000000
	defaultSend = 10 * time.Second
)

var (
	ErrInvalidCode     = errors.New("invalid code")
	ErrExpired         = errors.New("code expired")
	ErrAlreadyVerified = errors.New("already verified")
	ErrRateLimited     = errors.New("too many challenge requests")
)

// Notifier records inbox events.
type Notifier interface {
	Create(ctx context.Context, s notify.Spec) (*models.Notification, error)
}

// Config tunes the manager. Zero values fall back to defaults.
type Config struct {
	RequestsPerHour int
	Burst           int
	SendTimeout     time.Duration
	// OperatorEmail receives a notice for each verified email; empty disables it
	OperatorEmail string
}

// Deps are the collaborators of a Manager. Dispatcher and Notifier are
// optional; without them the best-effort side effects are skipped.
type Deps struct {
	Accounts   repository.AccountRepo
	Email      transport.Sender
	SMS        transport.Sender
	Dispatcher jobs.Dispatcher
	Notifier   Notifier
}

// Ack confirms a challenge was stored and delivered.
type Ack struct {
	Channel   models.Channel `json:"channel"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

type Manager struct {
	deps    Deps
	cfg     Config
	limiter *limiter
	logger  *slog.Logger
	now     func() time.Time
	random  io.Reader
}

func NewManager(deps Deps, cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSend
	}
	return &Manager{
		deps:    deps,
		cfg:     cfg,
		limiter: newLimiter(cfg.RequestsPerHour, cfg.Burst),
		logger:  logger,
		now:     time.Now,
		random:  rand.Reader,
	}
}

// Hash returns the hex SHA-256 digest stored in place of a code.
func Hash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func (m *Manager) generateCode() (string, error) {
	n, err := rand.Int(m.random, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func (m *Manager) resolve(ctx context.Context, identifier string, ch models.Channel) (*models.Account, error) {
	var (
		a   *models.Account
		err error
	)
	switch ch {
	case models.ChannelEmail:
		a, err = m.deps.Accounts.GetAccountByEmail(ctx, models.NormalizeEmail(identifier))
	case models.ChannelPhone:
		a, err = m.deps.Accounts.GetAccountByPhone(ctx, models.NormalizePhone(identifier))
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", models.ErrInvalidInput, ch)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load account: %w", models.ErrStorage, err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: no account for %s %q", models.ErrNotFound, ch, identifier)
	}
	return a, nil
}

func validate(identifier string, ch models.Channel) error {
	if strings.TrimSpace(identifier) == "" {
		return fmt.Errorf("%w: identifier is required", models.ErrInvalidInput)
	}
	if _, err := models.ParseChannel(string(ch)); err != nil {
		return err
	}
	return nil
}

// RequestChallenge stores a fresh challenge for the channel, replacing any
// previous one, and delivers the code. When delivery fails the stored
// challenge is kept; the next request overwrites it.
func (m *Manager) RequestChallenge(ctx context.Context, identifier string, ch models.Channel) (*Ack, error) {
	if err := validate(identifier, ch); err != nil {
		return nil, err
	}

	a, err := m.resolve(ctx, identifier, ch)
	if err != nil {
		return nil, err
	}
	if ch == models.ChannelEmail && a.EmailVerified {
		return nil, ErrAlreadyVerified
	}

	now := m.now()
	if !m.limiter.allow(a.ID+":"+string(ch), now) {
		m.logger.Warn("otp request rate limited", "account_id", a.ID, "channel", ch)
		return nil, ErrRateLimited
	}

	code, err := m.generateCode()
	if err != nil {
		return nil, err
	}
	expires := now.Add(ChallengeTTL).UTC()

	if err := m.deps.Accounts.SetChallenge(ctx, a.ID, ch, Hash(code), expires); err != nil {
		return nil, fmt.Errorf("%w: store challenge: %w", models.ErrStorage, err)
	}

	if err := m.deliver(ctx, a, ch, code); err != nil {
		m.logger.Error("otp delivery failed", "account_id", a.ID, "channel", ch, "err", err)
		return nil, fmt.Errorf("%w: %w", models.ErrDeliveryFailed, err)
	}

	m.logger.Info("otp challenge issued", "account_id", a.ID, "channel", ch)
	return &Ack{Channel: ch, ExpiresAt: expires}, nil
}

func (m *Manager) deliver(ctx context.Context, a *models.Account, ch models.Channel, code string) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
	defer cancel()

	if ch == models.ChannelPhone {
		if m.deps.SMS == nil {
			return transport.ErrNotConfigured
		}
		return m.deps.SMS.Send(ctx, smsMessage(a, code))
	}
	if m.deps.Email == nil {
		return transport.ErrNotConfigured
	}
	return m.deps.Email.Send(ctx, emailMessage(a, code))
}

// VerifyChallenge checks code against the stored challenge. An already
// verified channel succeeds without looking at the code. The hash is
// compared before the expiry, so a wrong code on an expired challenge
// reports ErrInvalidCode.
func (m *Manager) VerifyChallenge(ctx context.Context, identifier string, ch models.Channel, code string) (*models.Account, error) {
	if err := validate(identifier, ch); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", models.ErrInvalidInput)
	}

	a, err := m.resolve(ctx, identifier, ch)
	if err != nil {
		return nil, err
	}
	if a.Verified(ch) {
		return a, nil
	}

	stored, expires := a.Challenge(ch)
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(Hash(code))) != 1 {
		return nil, ErrInvalidCode
	}
	if m.now().After(expires) {
		return nil, ErrExpired
	}

	if err := m.deps.Accounts.MarkVerified(ctx, a.ID, ch); err != nil {
		return nil, fmt.Errorf("%w: mark verified: %w", models.ErrStorage, err)
	}

	fresh, err := m.deps.Accounts.GetAccountByID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: reload account: %w", models.ErrStorage, err)
	}
	if fresh == nil {
		return nil, fmt.Errorf("%w: account %s vanished", models.ErrNotFound, a.ID)
	}

	m.logger.Info("otp challenge verified", "account_id", a.ID, "channel", ch)
	if ch == models.ChannelEmail {
		m.afterEmailVerified(ctx, fresh)
	}
	return fresh, nil
}

// operatorNotice is the payload of TaskOperatorNotice.
type operatorNotice struct {
	To         string    `json:"to"`
	AccountID  string    `json:"accountId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// afterEmailVerified runs the best-effort side effects. Failures are logged
// and never reach the caller.
func (m *Manager) afterEmailVerified(ctx context.Context, a *models.Account) {
	if m.deps.Dispatcher != nil && m.cfg.OperatorEmail != "" {
		err := m.deps.Dispatcher.Submit(TaskOperatorNotice, operatorNotice{
			To:         m.cfg.OperatorEmail,
			AccountID:  a.ID,
			Name:       a.Name,
			Email:      a.Email,
			Role:       string(a.Role),
			VerifiedAt: m.now().UTC(),
		})
		if err != nil {
			m.logger.Warn("operator notice not queued", "account_id", a.ID, "err", err)
		}
	}

	if m.deps.Notifier != nil {
		_, err := m.deps.Notifier.Create(ctx, notify.Spec{
			TargetRole: models.RoleAdmin,
			Kind:       models.KindSystem,
			Title:      "Tài khoản mới đã xác minh email",
			Message:    fmt.Sprintf("%s (%s) đã xác minh email, vai trò: %s.", a.Name, a.Email, roleLabel(a.Role)),
			Link:       "/dashboard/users",
		})
		if err != nil {
			m.logger.Warn("admin notification not recorded", "account_id", a.ID, "err", err)
		}
	}
}

// OperatorNoticeHandler returns the worker handler for TaskOperatorNotice.
func (m *Manager) OperatorNoticeHandler() jobs.Handler {
	return func(ctx context.Context, t *jobs.Task) error {
		var n operatorNotice
		if err := t.Decode(&n); err != nil {
			return fmt.Errorf("decode operator notice: %w", err)
		}
		if m.deps.Email == nil {
			return transport.ErrNotConfigured
		}
		return m.deps.Email.Send(ctx, operatorMessage(n))
	}
}
