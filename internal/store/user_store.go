package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/swap24/backend/internal/models"
)

// UserStore is the credential store: identity, password hash and verification state.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash,
	email_otp, email_otp_expires_at, email_verified,
	phone, phone_otp, phone_otp_expires_at, phone_verified,
	created_at, updated_at`

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *UserStore) FindByEmailAndPhone(ctx context.Context, email, phone string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND phone = $2`, email, phone)
	return scanUser(row)
}

// CreateWithProfile inserts the user and its profile in one transaction.
func (s *UserStore) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	email := user.EmailVerification
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, email_otp, email_otp_expires_at, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		nullString(email.Code), nullTime(email.ExpiresAt), email.Verified, user.CreatedAt)
	if err != nil {
		return mapError(err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, username, bio, profile_picture, wallet_address, balance, transactions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		profile.ID, profile.UserID, profile.Username,
		nullString(profile.Bio), nullString(profile.ProfilePicture), nullString(profile.WalletAddress),
		profile.Balance, profile.Transactions, profile.CreatedAt)
	if err != nil {
		return mapError(err)
	}

	return tx.Commit()
}

// SaveEmailVerification writes only the email columns. The verified flag can be
// raised but never lowered, so a stale snapshot cannot undo a verification.
func (s *UserStore) SaveEmailVerification(ctx context.Context, user *models.User) error {
	email := user.EmailVerification
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email_otp = $2, email_otp_expires_at = $3, email_verified = email_verified OR $4,
			updated_at = $5
		WHERE id = $1`,
		user.ID, nullString(email.Code), nullTime(email.ExpiresAt), email.Verified, time.Now().UTC())
	return affectedOne(result, err)
}

// SavePhoneVerification writes only the phone columns. For the same number the
// verified flag is one-way; a different number takes the flag from the caller.
func (s *UserStore) SavePhoneVerification(ctx context.Context, user *models.User) error {
	phone := user.PhoneVerification
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET phone = $2, phone_otp = $3, phone_otp_expires_at = $4,
			phone_verified = CASE WHEN phone IS DISTINCT FROM $2 THEN $5 ELSE phone_verified OR $5 END,
			updated_at = $6
		WHERE id = $1`,
		user.ID, nullString(user.Phone), nullString(phone.Code), nullTime(phone.ExpiresAt), phone.Verified,
		time.Now().UTC())
	return affectedOne(result, err)
}

func affectedOne(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                          models.User
		emailOTP, phone, phoneOTP  sql.NullString
		emailExpires, phoneExpires sql.NullTime
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&emailOTP, &emailExpires, &u.EmailVerification.Verified,
		&phone, &phoneOTP, &phoneExpires, &u.PhoneVerification.Verified,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	u.Phone = stringPtr(phone)
	u.EmailVerification.Code = stringPtr(emailOTP)
	u.EmailVerification.ExpiresAt = timePtr(emailExpires)
	u.PhoneVerification.Code = stringPtr(phoneOTP)
	u.PhoneVerification.ExpiresAt = timePtr(phoneExpires)
	return &u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
