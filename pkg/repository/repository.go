package repository

import (
	"context"
	"time"

	"github.com/PhamNghia11/career-web/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Reads of a missing record return (nil, nil).

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) (string, error)
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByPhone(ctx context.Context, phone string) (*models.Account, error)
	// SetChallenge overwrites the challenge fields of ch in a single update.
	SetChallenge(ctx context.Context, id string, ch models.Channel, hash string, expires time.Time) error
	// MarkVerified sets the verified flag of ch and clears its challenge fields.
	MarkVerified(ctx context.Context, id string, ch models.Channel) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (string, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	// UpdateJobStatus reports whether a job with id existed.
	UpdateJobStatus(ctx context.Context, id string, status models.JobStatus, feedback string, updated time.Time) (bool, error)
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, aud models.Audience, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, aud models.Audience) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllReadForUser(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, id string) error
}

// Store groups the repositories a backend provides.
type Store interface {
	AccountRepo
	JobRepo
	NotificationRepo
}
