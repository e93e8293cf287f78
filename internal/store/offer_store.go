package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/swap24/backend/internal/models"
)

// OfferStore persists marketplace ads.
type OfferStore struct {
	db *sql.DB
}

func NewOfferStore(db *sql.DB) *OfferStore {
	return &OfferStore{db: db}
}

const offerColumns = `id, user_id, ads_id, title, description, asset_type, fiat_currency,
	price_per_unit, available_amount, min_limit, max_limit, status, payment_methods,
	trade_count, completion_rate, created_at, updated_at`

// Create inserts an offer. A reused ads_id yields ErrDuplicate.
func (s *OfferStore) Create(ctx context.Context, o *models.Offer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO offers (`+offerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`,
		o.ID, o.UserID, o.AdsID, o.Title, o.Description, o.AssetType, o.FiatCurrency,
		o.PricePerUnit, o.AvailableAmount, o.MinLimit, o.MaxLimit, string(o.Status), pq.Array(o.PaymentMethods),
		o.TradeCount, o.CompletionRate, o.CreatedAt)
	return mapError(err)
}

// ListByStatus returns offers with the given status, newest first.
func (s *OfferStore) ListByStatus(ctx context.Context, status models.OfferStatus) ([]models.Offer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+offerColumns+` FROM offers
		WHERE status = $1
		ORDER BY created_at DESC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

func (s *OfferStore) FindByAdsID(ctx context.Context, adsID string) (*models.Offer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE ads_id = $1`, adsID)
	o, err := scanOffer(row)
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func scanOffer(row rowScanner) (*models.Offer, error) {
	var (
		o      models.Offer
		status string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.AdsID, &o.Title, &o.Description, &o.AssetType, &o.FiatCurrency,
		&o.PricePerUnit, &o.AvailableAmount, &o.MinLimit, &o.MaxLimit, &status, pq.Array(&o.PaymentMethods),
		&o.TradeCount, &o.CompletionRate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = models.OfferStatus(status)
	if o.PaymentMethods == nil {
		o.PaymentMethods = []string{}
	}
	return &o, nil
}
