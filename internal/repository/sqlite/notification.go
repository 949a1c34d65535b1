package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PhamNghia11/career-web/internal/models"
)

func (r *SQLiteRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Created.IsZero() {
		n.Created = time.Now().UTC()
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO notifications (id, target_user_id, target_role, kind, title, message, link, read, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, nullString(n.TargetUserID), nullString(string(n.TargetRole)), string(n.Kind),
		n.Title, n.Message, n.Link, n.Read, n.Created.UTC().UnixMilli())
	return err
}

// audienceClause builds the visibility predicate for aud. An audience with
// neither a user nor roles matches nothing.
func audienceClause(aud models.Audience) (string, []any) {
	var (
		parts []string
		args  []any
	)
	if aud.UserID != "" {
		parts = append(parts, "target_user_id = ?")
		args = append(args, aud.UserID)
	}
	if len(aud.Roles) > 0 {
		marks := make([]string, len(aud.Roles))
		for i, role := range aud.Roles {
			marks[i] = "?"
			args = append(args, string(role))
		}
		parts = append(parts, "target_role IN ("+strings.Join(marks, ", ")+")")
	}
	if len(parts) == 0 {
		return "0", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func (r *SQLiteRepo) ListNotifications(ctx context.Context, aud models.Audience, limit int) ([]models.Notification, error) {
	where, args := audienceClause(aud)
	q := `SELECT id, target_user_id, target_role, kind, title, message, link, read, created
		FROM notifications WHERE ` + where + ` ORDER BY created DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var (
			n          models.Notification
			user, role sql.NullString
			kind       string
			created    int64
		)
		if err := rows.Scan(&n.ID, &user, &role, &kind, &n.Title, &n.Message, &n.Link, &n.Read, &created); err != nil {
			return nil, err
		}
		n.TargetUserID = user.String
		n.TargetRole = models.Role(role.String)
		n.Kind = models.NotificationKind(kind)
		n.Created = time.UnixMilli(created).UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *SQLiteRepo) CountUnread(ctx context.Context, aud models.Audience) (int64, error) {
	where, args := audienceClause(aud)
	var n int64
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE read = 0 AND `+where, args...).Scan(&n)
	return n, err
}

func (r *SQLiteRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	return err
}

// MarkAllReadForUser leaves role-targeted rows untouched.
func (r *SQLiteRepo) MarkAllReadForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.conn.Exec(ctx, `UPDATE notifications SET read = 1 WHERE target_user_id = ? AND read = 0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRepo) DeleteNotification(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	return err
}
