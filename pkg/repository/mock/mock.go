package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/pkg/repository"
)

var (
	_ repository.AccountRepo      = (*mockAccountRepo)(nil)
	_ repository.JobRepo          = (*mockJobRepo)(nil)
	_ repository.NotificationRepo = (*mockNotificationRepo)(nil)
)

// Test helpers and mocks
type Mocks struct {
	Accounts      *mockAccountRepo
	Jobs          *mockJobRepo
	Notifications *mockNotificationRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Accounts:      &mockAccountRepo{byID: map[string]*models.Account{}},
		Jobs:          &mockJobRepo{byID: map[string]*models.Job{}},
		Notifications: &mockNotificationRepo{},
	}
}

type mockAccountRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Account

	CreateErr error
	GetErr    error
	UpdateErr error
	Updates   int
}

// Put stores a copy of a, assigning an id when empty, and returns the id.
func (m *mockAccountRepo) Put(a models.Account) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = models.NormalizeEmail(a.Email)
	m.byID[a.ID] = &a
	return a.ID
}

// Snapshot returns a copy of the stored account or nil.
func (m *mockAccountRepo) Snapshot(id string) *models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, a *models.Account) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.mu.Lock()
	for _, existing := range m.byID {
		if existing.Email == models.NormalizeEmail(a.Email) {
			m.mu.Unlock()
			return "", models.ErrConflict
		}
	}
	m.mu.Unlock()
	return m.Put(*a), nil
}

func (m *mockAccountRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Snapshot(id), nil
}

func (m *mockAccountRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == models.NormalizeEmail(email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) GetAccountByPhone(ctx context.Context, phone string) (*models.Account, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Phone != "" && a.Phone == phone {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) SetChallenge(ctx context.Context, id string, ch models.Channel, hash string, expires time.Time) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil
	}
	m.Updates++
	if ch == models.ChannelPhone {
		a.PhoneOTPHash, a.PhoneOTPExpires = hash, expires
	} else {
		a.EmailOTPHash, a.EmailOTPExpires = hash, expires
	}
	return nil
}

func (m *mockAccountRepo) MarkVerified(ctx context.Context, id string, ch models.Channel) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil
	}
	m.Updates++
	if ch == models.ChannelPhone {
		a.PhoneVerified = true
		a.PhoneOTPHash, a.PhoneOTPExpires = "", time.Time{}
	} else {
		a.EmailVerified = true
		a.EmailOTPHash, a.EmailOTPExpires = "", time.Time{}
	}
	return nil
}

type mockJobRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Job

	CreateErr error
	UpdateErr error
}

func (m *mockJobRepo) CreateJob(ctx context.Context, j *models.Job) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *j
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	m.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (m *mockJobRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (m *mockJobRepo) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus, feedback string, updated time.Time) (bool, error) {
	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	j.Status, j.AdminFeedback, j.Updated = status, feedback, updated
	return true, nil
}

type mockNotificationRepo struct {
	mu    sync.Mutex
	Items []models.Notification

	CreateErr error
	ListErr   error
}

func (m *mockNotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items = append(m.Items, *n)
	return nil
}

func visible(n models.Notification, aud models.Audience) bool {
	if n.TargetUserID != "" && n.TargetUserID == aud.UserID {
		return true
	}
	for _, r := range aud.Roles {
		if n.TargetRole == r {
			return true
		}
	}
	return false
}

func (m *mockNotificationRepo) ListNotifications(ctx context.Context, aud models.Audience, limit int) ([]models.Notification, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for i := len(m.Items) - 1; i >= 0; i-- {
		if visible(m.Items[i], aud) {
			out = append(out, m.Items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, aud models.Audience) (int64, error) {
	if m.ListErr != nil {
		return 0, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.Items {
		if !it.Read && visible(it, aud) {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Items {
		if m.Items[i].ID == id {
			m.Items[i].Read = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllReadForUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.Items {
		if m.Items[i].TargetUserID == userID && !m.Items[i].Read {
			m.Items[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationRepo) DeleteNotification(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.Items[:0]
	for _, it := range m.Items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	m.Items = out
	return nil
}

// All returns a copy of every stored notification.
func (m *mockNotificationRepo) All() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification(nil), m.Items...)
}
