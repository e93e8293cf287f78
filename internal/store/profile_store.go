package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/swap24/backend/internal/models"
)

// ProfileStore persists profiles and their embedded transaction ledger.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p                models.Profile
		bio, pic, wallet sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, bio, profile_picture, wallet_address, balance, transactions, created_at, updated_at
		FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.ID, &p.UserID, &p.Username, &bio, &pic, &wallet, &p.Balance, &p.Transactions, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	p.Bio, p.ProfilePicture, p.WalletAddress = stringPtr(bio), stringPtr(pic), stringPtr(wallet)
	return &p, nil
}

// FindSummaryByUserID loads the public seller card without the ledger.
func (s *ProfileStore) FindSummaryByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p                models.Profile
		bio, pic, wallet sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, bio, profile_picture, wallet_address
		FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.ID, &p.UserID, &p.Username, &bio, &pic, &wallet)
	if err != nil {
		return nil, mapError(err)
	}
	p.Bio, p.ProfilePicture, p.WalletAddress = stringPtr(bio), stringPtr(pic), stringPtr(wallet)
	return &p, nil
}

// Transactions returns the ledger in stored (insertion) order.
func (s *ProfileStore) Transactions(ctx context.Context, userID string) (models.Transactions, error) {
	var ledger models.Transactions
	err := s.db.QueryRowContext(ctx, `SELECT transactions FROM profiles WHERE user_id = $1`, userID).Scan(&ledger)
	if err != nil {
		return nil, mapError(err)
	}
	return ledger, nil
}

// AppendTransaction pushes one entry onto the ledger in a single UPDATE, so concurrent
// appends for the same user never overwrite each other.
func (s *ProfileStore) AppendTransaction(ctx context.Context, userID string, entry models.Transaction) error {
	payload, err := json.Marshal([]models.Transaction{entry})
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET transactions = transactions || $2::jsonb, updated_at = $3
		WHERE user_id = $1`,
		userID, string(payload), time.Now().UTC())
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

// Update writes the editable profile fields. The ledger is never touched here.
func (s *ProfileStore) Update(ctx context.Context, p *models.Profile) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET username = $2, bio = $3, profile_picture = $4, wallet_address = $5, balance = $6, updated_at = $7
		WHERE user_id = $1`,
		p.UserID, p.Username, nullString(p.Bio), nullString(p.ProfilePicture), nullString(p.WalletAddress),
		p.Balance, time.Now().UTC())
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
