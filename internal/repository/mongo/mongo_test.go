package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/repository/mongo"
)

// setupRepo connects to PORTAL_TEST_MONGO_URI and uses a throwaway database.
func setupRepo(t *testing.T) *mongo.MongoRepo {
	t.Helper()
	uri := os.Getenv("PORTAL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PORTAL_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	repo, err := mongo.Connect(ctx, uri, "portal_test_"+uuid.NewString()[:8], nil)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = repo.DropDatabase(context.Background())
		_ = repo.Close(context.Background())
	})
	return repo
}

func TestMongoAccounts(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	got, err := repo.GetAccountByEmail(ctx, "none@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	id, err := repo.CreateAccount(ctx, &models.Account{Name: "Lan", Email: "Lan@Example.com", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = repo.CreateAccount(ctx, &models.Account{Name: "Dup", Email: "lan@example.com", Role: models.RoleStudent})
	assert.ErrorIs(t, err, models.ErrConflict)

	// sparse phone index lets several accounts omit the phone
	_, err = repo.CreateAccount(ctx, &models.Account{Name: "B", Email: "b@example.com", Role: models.RoleStudent})
	require.NoError(t, err)

	exp := time.Now().Add(5 * time.Minute).Truncate(time.Millisecond).UTC()
	require.NoError(t, repo.SetChallenge(ctx, id, models.ChannelEmail, "abc", exp))

	got, err = repo.GetAccountByID(ctx, id)
	require.NoError(t, err)
	hash, expires := got.Challenge(models.ChannelEmail)
	assert.Equal(t, "abc", hash)
	assert.True(t, expires.Equal(exp))

	require.NoError(t, repo.MarkVerified(ctx, id, models.ChannelEmail))
	got, err = repo.GetAccountByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.Empty(t, got.EmailOTPHash)
	assert.True(t, got.EmailOTPExpires.IsZero())
}

func TestMongoJobsAndNotifications(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.CreateJob(ctx, &models.Job{Title: "Intern", Company: "GDU", Status: models.JobPending})
	require.NoError(t, err)

	ok, err := repo.UpdateJobStatus(ctx, id, models.JobRejected, "missing salary", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateJobStatus(ctx, "missing", models.JobActive, "", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	j, err := repo.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.JobRejected, j.Status)
	assert.Equal(t, "missing salary", j.AdminFeedback)

	base := time.Now().Add(-time.Hour).UTC()
	require.NoError(t, repo.CreateNotification(ctx, &models.Notification{TargetUserID: "u1", Kind: models.KindJob, Title: "a", Created: base}))
	require.NoError(t, repo.CreateNotification(ctx, &models.Notification{TargetRole: models.RoleAdmin, Kind: models.KindSystem, Title: "b", Created: base.Add(time.Minute)}))
	assert.ErrorIs(t, repo.CreateNotification(ctx, &models.Notification{Kind: models.KindJob, Title: "c"}), models.ErrInvalidInput)

	admin := models.Audience{UserID: "u1", Roles: []models.Role{models.RoleAdmin}}
	list, err := repo.ListNotifications(ctx, admin, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Title)

	n, err := repo.MarkAllReadForUser(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	unread, err := repo.CountUnread(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, repo.DeleteNotification(ctx, list[0].ID))
	list, err = repo.ListNotifications(ctx, models.Audience{Roles: []models.Role{models.RoleAdmin}}, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
