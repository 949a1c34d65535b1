// Package moderation runs the job posting review workflow. Every status
// change made by an admin is reported to the job's creator.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PhamNghia11/career-web/internal/jobs"
	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/notify"
	"github.com/PhamNghia11/career-web/pkg/repository"
	"github.com/PhamNghia11/career-web/pkg/transport"
)

// TaskStatusEmail is the dispatcher task type that emails a moderation
// decision to the job's creator.
const TaskStatusEmail = "job.status_email"

// MyJobsLink is where creators review their postings.
const MyJobsLink = "/dashboard/my-jobs"

// ErrInvalidStatus is returned for a moderation target other than active,
// rejected or request_changes.
var ErrInvalidStatus = fmt.Errorf("%w: illegal moderation status", models.ErrInvalidInput)

// Notifier records inbox events.
type Notifier interface {
	Create(ctx context.Context, s notify.Spec) (*models.Notification, error)
}

// Deps are the collaborators of a Machine. Notifier and Dispatcher are
// optional.
type Deps struct {
	Jobs       repository.JobRepo
	Accounts   repository.AccountRepo
	Notifier   Notifier
	Dispatcher jobs.Dispatcher
	Email      transport.Sender
	// AppURL prefixes the dashboard link in status emails; empty omits it
	AppURL string
}

type Machine struct {
	deps   Deps
	logger *slog.Logger
	now    func() time.Time
}

func NewMachine(deps Deps, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{deps: deps, logger: logger, now: time.Now}
}

// InitialStatus is active for admin authors and pending for everyone else.
func InitialStatus(role models.Role) models.JobStatus {
	if role == models.RoleAdmin {
		return models.JobActive
	}
	return models.JobPending
}

// Submit stores a new posting in its initial status. Pending postings are
// announced to the admin role.
func (m *Machine) Submit(ctx context.Context, j models.Job, creatorRole models.Role) (*models.Job, error) {
	if _, err := models.ParseRole(string(creatorRole)); err != nil {
		return nil, err
	}
	j.Title = strings.TrimSpace(j.Title)
	j.Company = strings.TrimSpace(j.Company)
	if j.Title == "" || j.Company == "" {
		return nil, fmt.Errorf("%w: title and company are required", models.ErrInvalidInput)
	}
	j.ContactEmail = models.NormalizeEmail(j.ContactEmail)

	now := m.now().UTC()
	j.ID = ""
	j.Status = InitialStatus(creatorRole)
	j.AdminFeedback = ""
	j.Created, j.Updated = now, now

	id, err := m.deps.Jobs.CreateJob(ctx, &j)
	if err != nil {
		return nil, fmt.Errorf("%w: create job: %w", models.ErrStorage, err)
	}
	j.ID = id
	m.logger.Info("job submitted", "job_id", id, "status", j.Status, "creator_id", j.CreatorID)

	if j.Status == models.JobPending && m.deps.Notifier != nil {
		_, err := m.deps.Notifier.Create(ctx, notify.Spec{
			TargetRole: models.RoleAdmin,
			Kind:       models.KindJob,
			Title:      "Tin tuyển dụng mới chờ duyệt",
			Message:    fmt.Sprintf("%s vừa đăng tin \"%s\" và đang chờ duyệt.", j.Company, j.Title),
			Link:       "/dashboard/jobs",
		})
		if err != nil {
			m.logger.Warn("admin notification not recorded", "job_id", id, "err", err)
		}
	}
	return &j, nil
}

// Get returns a job or ErrNotFound.
func (m *Machine) Get(ctx context.Context, id string) (*models.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: job id is required", models.ErrInvalidInput)
	}
	j, err := m.deps.Jobs.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load job: %w", models.ErrStorage, err)
	}
	if j == nil {
		return nil, fmt.Errorf("%w: job %s", models.ErrNotFound, id)
	}
	return j, nil
}

func legalTarget(s models.JobStatus) bool {
	switch s {
	case models.JobActive, models.JobRejected, models.JobRequestChanges:
		return true
	}
	return false
}

// Moderate moves a job to status from whatever state it is in and records
// feedback. Re-moderation is allowed and the last write wins. Notifying
// the creator is best-effort and never fails the call.
func (m *Machine) Moderate(ctx context.Context, jobID string, status models.JobStatus, feedback string) (*models.Job, error) {
	if !legalTarget(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	j, err := m.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	feedback = strings.TrimSpace(feedback)
	found, err := m.deps.Jobs.UpdateJobStatus(ctx, jobID, status, feedback, now)
	if err != nil {
		return nil, fmt.Errorf("%w: update job status: %w", models.ErrStorage, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: job %s", models.ErrNotFound, jobID)
	}

	previous := j.Status
	j.Status, j.AdminFeedback, j.Updated = status, feedback, now
	m.logger.Info("job moderated", "job_id", jobID, "from", previous, "to", status)

	m.notifyCreator(ctx, j)
	return j, nil
}

// recipient resolves who hears about a decision: the creator, else an
// account whose email matches the job's contact address.
func (m *Machine) recipient(ctx context.Context, j *models.Job) (*models.Account, error) {
	if j.CreatorID != "" {
		a, err := m.deps.Accounts.GetAccountByID(ctx, j.CreatorID)
		if err != nil || a != nil {
			return a, err
		}
	}
	if j.ContactEmail == "" {
		return nil, nil
	}
	return m.deps.Accounts.GetAccountByEmail(ctx, j.ContactEmail)
}

// statusEmail is the payload of TaskStatusEmail.
type statusEmail struct {
	To       string           `json:"to"`
	Name     string           `json:"name"`
	JobTitle string           `json:"jobTitle"`
	Status   models.JobStatus `json:"status"`
	Feedback string           `json:"feedback,omitempty"`
	Link     string           `json:"link,omitempty"`
}

func (m *Machine) notifyCreator(ctx context.Context, j *models.Job) {
	if m.deps.Accounts == nil {
		return
	}
	a, err := m.recipient(ctx, j)
	if err != nil {
		m.logger.Warn("moderation recipient lookup failed", "job_id", j.ID, "err", err)
		return
	}
	if a == nil {
		m.logger.Debug("moderation has no recipient", "job_id", j.ID)
		return
	}

	if m.deps.Notifier != nil {
		title, message := StatusNotice(j)
		_, err := m.deps.Notifier.Create(ctx, notify.Spec{
			TargetUserID: a.ID,
			Kind:         models.KindJob,
			Title:        title,
			Message:      message,
			Link:         MyJobsLink,
		})
		if err != nil {
			m.logger.Warn("moderation notification not recorded", "job_id", j.ID, "err", err)
		}
	}

	if m.deps.Dispatcher != nil && a.Email != "" {
		err := m.deps.Dispatcher.Submit(TaskStatusEmail, statusEmail{
			To:       a.Email,
			Name:     a.Name,
			JobTitle: j.Title,
			Status:   j.Status,
			Feedback: j.AdminFeedback,
			Link:     m.dashboardURL(),
		})
		if err != nil {
			m.logger.Warn("status email not queued", "job_id", j.ID, "err", err)
		}
	}
}

func (m *Machine) dashboardURL() string {
	if m.deps.AppURL == "" {
		return ""
	}
	return strings.TrimRight(m.deps.AppURL, "/") + MyJobsLink
}

// StatusEmailHandler returns the worker handler for TaskStatusEmail.
func (m *Machine) StatusEmailHandler() jobs.Handler {
	return func(ctx context.Context, t *jobs.Task) error {
		var p statusEmail
		if err := t.Decode(&p); err != nil {
			return fmt.Errorf("decode status email: %w", err)
		}
		if m.deps.Email == nil {
			return transport.ErrNotConfigured
		}
		return m.deps.Email.Send(ctx, statusMessage(p))
	}
}
