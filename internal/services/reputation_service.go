package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/store"
)

// UpsertTraderStatsRequest replaces a trader's counters. The read-only fields of
// a stats response are accepted so a fetched document can be sent back as is,
// but never read: the user comes from the path and the rate from the counters.
// @Description Trader stats structure
type UpsertTraderStatsRequest struct {
	TotalOrders        int                `json:"totalOrders" validate:"gte=0" example:"10"`
	SuccessfulOrders   int                `json:"successfulOrders" validate:"gte=0,ltefield=TotalOrders" example:"7"`
	CancelledOrders    int                `json:"cancelledOrders" validate:"gte=0,ltefield=TotalOrders" example:"3"`
	AverageReleaseTime float64            `json:"averageReleaseTime" validate:"gte=0" example:"4.5"`
	AveragePaymentTime float64            `json:"averagePaymentTime" validate:"gte=0" example:"6"`
	BankDetails        models.BankDetails `json:"bankDetails"`

	UserID         string     `json:"userId,omitempty" swaggerignore:"true"`
	PositivityRate *float64   `json:"positivityRate,omitempty" swaggerignore:"true"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty" swaggerignore:"true"`
}

type ReputationService struct {
	stats     TraderStatsRepository
	profiles  ProfileRepository
	validator *ValidationHelper
}

func NewReputationService(stats TraderStatsRepository, profiles ProfileRepository) *ReputationService {
	return &ReputationService{stats: stats, profiles: profiles, validator: NewValidationHelper()}
}

func (s *ReputationService) GetTraderStats(ctx context.Context, userID string) (*models.TraderStats, error) {
	stats, err := s.stats.FindByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("trader stats %w", ErrNotFound)
	}
	return stats, err
}

// UpsertTraderStats writes the stats for a user who has a profile.
func (s *ReputationService) UpsertTraderStats(ctx context.Context, userID string, req UpsertTraderStatsRequest) (*models.TraderStats, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}
	if req.SuccessfulOrders+req.CancelledOrders > req.TotalOrders {
		return nil, fmt.Errorf("%w: successful and cancelled orders exceed total", ErrValidation)
	}

	if _, err := s.profiles.FindSummaryByUserID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user profile %w", ErrNotFound)
		}
		return nil, err
	}

	stats := &models.TraderStats{
		UserID:             userID,
		TotalOrders:        req.TotalOrders,
		SuccessfulOrders:   req.SuccessfulOrders,
		CancelledOrders:    req.CancelledOrders,
		AverageReleaseTime: req.AverageReleaseTime,
		AveragePaymentTime: req.AveragePaymentTime,
		BankDetails:        req.BankDetails,
	}
	if err := s.stats.Upsert(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}
