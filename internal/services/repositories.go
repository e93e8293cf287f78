package services

import (
	"context"

	"github.com/swap24/backend/internal/models"
)

// Storage contracts the services depend on. internal/store implements them on Postgres;
// lookups report store.ErrNotFound and unique violations store.ErrDuplicate.

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailAndPhone(ctx context.Context, email, phone string) (*models.User, error)
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error
	SaveEmailVerification(ctx context.Context, user *models.User) error
	SavePhoneVerification(ctx context.Context, user *models.User) error
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	FindSummaryByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Transactions(ctx context.Context, userID string) (models.Transactions, error)
	AppendTransaction(ctx context.Context, userID string, entry models.Transaction) error
	Update(ctx context.Context, profile *models.Profile) error
}

type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	ListByStatus(ctx context.Context, status models.OfferStatus) ([]models.Offer, error)
	FindByAdsID(ctx context.Context, adsID string) (*models.Offer, error)
}

type TraderStatsRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.TraderStats, error)
	Upsert(ctx context.Context, stats *models.TraderStats) error
}

// Publisher pushes an event to every subscriber of a channel.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}
