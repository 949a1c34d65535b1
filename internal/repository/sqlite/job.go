package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PhamNghia11/career-web/internal/models"
)

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (string, error) {
	if j == nil {
		return "", fmt.Errorf("job is nil")
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	created := toMillis(j.Created)
	if !created.Valid {
		created = sql.NullInt64{Int64: now(), Valid: true}
	}
	updated := toMillis(j.Updated)
	if !updated.Valid {
		updated = created
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO jobs (id, title, company, location, type, salary, description, contact_email, creator_id, status, admin_feedback, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.Company, j.Location, j.Type, j.Salary, j.Description, j.ContactEmail,
		nullString(j.CreatorID), string(j.Status), j.AdminFeedback, created.Int64, updated.Int64)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return "", err
	}

	return j.ID, nil
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, title, company, location, type, salary, description, contact_email, creator_id, status, admin_feedback, created, updated
		FROM jobs WHERE id = ?`, id)

	var (
		j                models.Job
		creator          sql.NullString
		status           string
		created, updated int64
	)
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Type, &j.Salary, &j.Description, &j.ContactEmail,
		&creator, &status, &j.AdminFeedback, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	j.CreatorID = creator.String
	j.Status = models.JobStatus(status)
	j.Created = time.UnixMilli(created).UTC()
	j.Updated = time.UnixMilli(updated).UTC()

	return &j, nil
}

func (r *SQLiteRepo) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus, feedback string, updated time.Time) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE jobs SET status = ?, admin_feedback = ?, updated = ? WHERE id = ?`,
		string(status), feedback, updated.UTC().UnixMilli(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
