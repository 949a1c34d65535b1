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

const accountColumns = `id, name, email, phone, role, password_hash, email_verified, phone_verified, email_otp_hash, email_otp_expires, phone_otp_hash, phone_otp_expires, created, updated`

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) (string, error) {
	if a == nil {
		return "", fmt.Errorf("account is nil")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	ts := now()

	_, err := r.conn.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, NULL, NULL, ?, ?)`,
		a.ID, a.Name, models.NormalizeEmail(a.Email), nullString(models.NormalizePhone(a.Phone)), string(a.Role), a.PasswordHash,
		a.EmailVerified, a.PhoneVerified, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return "", err
	}

	return a.ID, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a                     models.Account
		role                  string
		phone, emailH, phoneH sql.NullString
		emailExp, phoneExp    sql.NullInt64
		created, updated      int64
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &phone, &role, &a.PasswordHash, &a.EmailVerified, &a.PhoneVerified,
		&emailH, &emailExp, &phoneH, &phoneExp, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	a.Role = models.Role(role)
	a.Phone = phone.String
	a.EmailOTPHash = emailH.String
	a.EmailOTPExpires = fromMillis(emailExp)
	a.PhoneOTPHash = phoneH.String
	a.PhoneOTPExpires = fromMillis(phoneExp)
	a.Created = time.UnixMilli(created).UTC()
	a.Updated = time.UnixMilli(updated).UTC()

	return &a, nil
}

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, models.NormalizeEmail(email)))
}

func (r *SQLiteRepo) GetAccountByPhone(ctx context.Context, phone string) (*models.Account, error) {
	phone = models.NormalizePhone(phone)
	if phone == "" {
		return nil, nil
	}
	return scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone = ?`, phone))
}

// SetChallenge overwrites the channel's hash and expiry in one statement, so
// concurrent requests for the same account resolve to the last write.
func (r *SQLiteRepo) SetChallenge(ctx context.Context, id string, ch models.Channel, hash string, expires time.Time) error {
	q := `UPDATE accounts SET email_otp_hash = ?, email_otp_expires = ?, updated = ? WHERE id = ?`
	if ch == models.ChannelPhone {
		q = `UPDATE accounts SET phone_otp_hash = ?, phone_otp_expires = ?, updated = ? WHERE id = ?`
	}
	_, err := r.conn.Exec(ctx, q, nullString(hash), toMillis(expires), now(), id)
	return err
}

func (r *SQLiteRepo) MarkVerified(ctx context.Context, id string, ch models.Channel) error {
	q := `UPDATE accounts SET email_verified = 1, email_otp_hash = NULL, email_otp_expires = NULL, updated = ? WHERE id = ?`
	if ch == models.ChannelPhone {
		q = `UPDATE accounts SET phone_verified = 1, phone_otp_hash = NULL, phone_otp_expires = NULL, updated = ? WHERE id = ?`
	}
	_, err := r.conn.Exec(ctx, q, now(), id)
	return err
}
