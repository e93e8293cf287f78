package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/swap24/backend/internal/models"
)

// TraderStatsStore is the reputation store.
type TraderStatsStore struct {
	db *sql.DB
}

func NewTraderStatsStore(db *sql.DB) *TraderStatsStore {
	return &TraderStatsStore{db: db}
}

func (s *TraderStatsStore) FindByUserID(ctx context.Context, userID string) (*models.TraderStats, error) {
	var st models.TraderStats
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, total_orders, successful_orders, cancelled_orders, positivity_rate,
			average_release_time, average_payment_time, bank_name, account_number, account_username, updated_at
		FROM trader_stats WHERE user_id = $1`, userID).
		Scan(&st.UserID, &st.TotalOrders, &st.SuccessfulOrders, &st.CancelledOrders, &st.PositivityRate,
			&st.AverageReleaseTime, &st.AveragePaymentTime,
			&st.BankDetails.BankName, &st.BankDetails.AccountNumber, &st.BankDetails.AccountUsername, &st.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &st, nil
}

// Upsert writes the stats row. The positivity rate is always recomputed from the
// order counters here, whatever the caller put in the struct.
func (s *TraderStatsStore) Upsert(ctx context.Context, st *models.TraderStats) error {
	st.Recompute()
	st.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trader_stats (user_id, total_orders, successful_orders, cancelled_orders, positivity_rate,
			average_release_time, average_payment_time, bank_name, account_number, account_username, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			total_orders = EXCLUDED.total_orders,
			successful_orders = EXCLUDED.successful_orders,
			cancelled_orders = EXCLUDED.cancelled_orders,
			positivity_rate = EXCLUDED.positivity_rate,
			average_release_time = EXCLUDED.average_release_time,
			average_payment_time = EXCLUDED.average_payment_time,
			bank_name = EXCLUDED.bank_name,
			account_number = EXCLUDED.account_number,
			account_username = EXCLUDED.account_username,
			updated_at = EXCLUDED.updated_at`,
		st.UserID, st.TotalOrders, st.SuccessfulOrders, st.CancelledOrders, st.PositivityRate,
		st.AverageReleaseTime, st.AveragePaymentTime,
		st.BankDetails.BankName, st.BankDetails.AccountNumber, st.BankDetails.AccountUsername, st.UpdatedAt)
	return mapError(err)
}
