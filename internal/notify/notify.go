// Package notify records inbox events and answers inbox queries. A
// notification targets either one account or every holder of a role.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/pkg/repository"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ErrInvalidTarget is returned when a notification names both or neither
// of a user and a role.
var ErrInvalidTarget = fmt.Errorf("%w: exactly one of target user or target role is required", models.ErrInvalidInput)

// Spec describes a notification to record.
type Spec struct {
	TargetUserID string
	TargetRole   models.Role
	Kind         models.NotificationKind
	Title        string
	Message      string
	Link         string
}

// Inbox is a page of notifications plus the viewer's unread total.
type Inbox struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int64                 `json:"unreadCount"`
}

type Router struct {
	repo   repository.NotificationRepo
	logger *slog.Logger
	now    func() time.Time
}

func NewRouter(repo repository.NotificationRepo, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{repo: repo, logger: logger, now: time.Now}
}

// Create validates s and persists it as an unread notification.
func (r *Router) Create(ctx context.Context, s Spec) (*models.Notification, error) {
	s.TargetUserID = strings.TrimSpace(s.TargetUserID)
	if (s.TargetUserID == "") == (s.TargetRole == "") {
		return nil, ErrInvalidTarget
	}
	if s.TargetRole != "" {
		if _, err := models.ParseRole(string(s.TargetRole)); err != nil {
			return nil, err
		}
	}
	if _, err := models.ParseNotificationKind(string(s.Kind)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}

	n := &models.Notification{
		ID:           uuid.NewString(),
		TargetUserID: s.TargetUserID,
		TargetRole:   s.TargetRole,
		Kind:         s.Kind,
		Title:        s.Title,
		Message:      s.Message,
		Link:         s.Link,
		Read:         false,
		Created:      r.now().UTC(),
	}
	if err := r.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("%w: create notification: %w", models.ErrStorage, err)
	}

	r.logger.Debug("notification created", "id", n.ID, "kind", n.Kind, "user", n.TargetUserID, "role", n.TargetRole)
	return n, nil
}

// AudienceFor returns the routing keys visible to an account. Admins also
// see everything addressed to the admin role; other roles only see their
// own user-targeted entries.
func AudienceFor(accountID string, role models.Role) models.Audience {
	aud := models.Audience{UserID: accountID}
	if role == models.RoleAdmin {
		aud.Roles = []models.Role{models.RoleAdmin}
	}
	return aud
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func validateViewer(accountID string, role models.Role) error {
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("%w: account id is required", models.ErrInvalidInput)
	}
	if role != "" {
		if _, err := models.ParseRole(string(role)); err != nil {
			return err
		}
	}
	return nil
}

// ListFor returns the visible notifications newest first. Each call reads
// from scratch; there is no cursor.
func (r *Router) ListFor(ctx context.Context, accountID string, role models.Role, limit int) ([]models.Notification, error) {
	if err := validateViewer(accountID, role); err != nil {
		return nil, err
	}
	items, err := r.repo.ListNotifications(ctx, AudienceFor(accountID, role), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: list notifications: %w", models.ErrStorage, err)
	}
	return items, nil
}

func (r *Router) UnreadCount(ctx context.Context, accountID string, role models.Role) (int64, error) {
	if err := validateViewer(accountID, role); err != nil {
		return 0, err
	}
	n, err := r.repo.CountUnread(ctx, AudienceFor(accountID, role))
	if err != nil {
		return 0, fmt.Errorf("%w: count unread: %w", models.ErrStorage, err)
	}
	return n, nil
}

// Inbox combines ListFor and UnreadCount.
func (r *Router) Inbox(ctx context.Context, accountID string, role models.Role, limit int) (*Inbox, error) {
	items, err := r.ListFor(ctx, accountID, role, limit)
	if err != nil {
		return nil, err
	}
	unread, err := r.UnreadCount(ctx, accountID, role)
	if err != nil {
		return nil, err
	}
	return &Inbox{Items: items, UnreadCount: unread}, nil
}

// MarkRead flags one notification as read. There is no ownership check and
// an unknown id is not an error. For role-targeted entries the flag is
// shared by every holder of the role.
func (r *Router) MarkRead(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: notification id is required", models.ErrInvalidInput)
	}
	if err := r.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("%w: mark read: %w", models.ErrStorage, err)
	}
	return nil
}

// MarkAllRead flags the account's own unread notifications. Role-targeted
// notifications are left untouched.
func (r *Router) MarkAllRead(ctx context.Context, accountID string) (int64, error) {
	if strings.TrimSpace(accountID) == "" {
		return 0, fmt.Errorf("%w: account id is required", models.ErrInvalidInput)
	}
	n, err := r.repo.MarkAllReadForUser(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%w: mark all read: %w", models.ErrStorage, err)
	}
	return n, nil
}

// Delete removes a notification unconditionally.
func (r *Router) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: notification id is required", models.ErrInvalidInput)
	}
	if err := r.repo.DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("%w: delete notification: %w", models.ErrStorage, err)
	}
	return nil
}
