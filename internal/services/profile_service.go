package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/store"
)

// UpdateProfileRequest is a partial update: nil fields are left untouched.
// @Description Profile update structure
type UpdateProfileRequest struct {
	Username       *string        `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum" example:"adaobi"`
	Bio            *string        `json:"bio,omitempty" validate:"omitempty,max=280"`
	ProfilePicture *string        `json:"profilePicture,omitempty" validate:"omitempty,url"`
	WalletAddress  *string        `json:"walletAddress,omitempty" validate:"omitempty,wallet" example:"0x52908400098527886E0F7030069857D2E4169EE7"`
	Balance        *BalanceUpdate `json:"balance,omitempty"`
}

// BalanceUpdate sets the naira balance and/or individual crypto holdings.
// Crypto keys are asset symbols such as "USDT" or "BTC".
type BalanceUpdate struct {
	Naira  *float64           `json:"naira,omitempty" validate:"omitempty,gte=0"`
	Crypto map[string]float64 `json:"crypto,omitempty" validate:"omitempty,dive,keys,asset,endkeys,gte=0"`
}

type ProfileService struct {
	profiles  ProfileRepository
	validator *ValidationHelper
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, validator: NewValidationHelper()}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("user profile %w", ErrNotFound)
	}
	return profile, err
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.Profile, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		profile.Username = strings.ToLower(*req.Username)
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.ProfilePicture != nil {
		profile.ProfilePicture = req.ProfilePicture
	}
	if req.WalletAddress != nil {
		profile.WalletAddress = req.WalletAddress
	}
	if b := req.Balance; b != nil {
		if b.Naira != nil {
			profile.Balance.Naira = *b.Naira
		}
		if profile.Balance.Crypto == nil {
			profile.Balance.Crypto = map[string]float64{}
		}
		for symbol, amount := range b.Crypto {
			profile.Balance.Crypto[symbol] = amount
		}
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("user profile %w", ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}
