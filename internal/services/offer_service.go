package services

import (
	"context"
	"errors"
	"time"

	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/store"
	"golang.org/x/sync/errgroup"
)

// sellerLookupConcurrency bounds the per-offer profile and stats lookups.
const sellerLookupConcurrency = 8

// TraderStatsView is the reputation block shown next to an offer.
type TraderStatsView struct {
	TotalOrders        int                `json:"totalOrders"`
	SuccessfulOrders   int                `json:"successfulOrders"`
	CancelledOrders    int                `json:"cancelledOrders"`
	PositivityRate     float64            `json:"positivityRate"`
	AverageReleaseTime float64            `json:"averageReleaseTime"`
	AveragePaymentTime float64            `json:"averagePaymentTime"`
	BankDetails        models.BankDetails `json:"bankDetails"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// SellerView is the public seller card. TraderStats is nil for sellers without stats.
type SellerView struct {
	Username       string           `json:"username"`
	Bio            *string          `json:"bio"`
	ProfilePicture *string          `json:"profilePicture"`
	WalletAddress  *string          `json:"walletAddress"`
	TraderStats    *TraderStatsView `json:"traderStats"`
}

// OfferView is one row of the marketplace listing. Seller is nil when the owner has no profile.
type OfferView struct {
	AdsID           string             `json:"adsId"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	AssetType       string             `json:"assetType"`
	FiatCurrency    string             `json:"fiatCurrency"`
	PricePerUnit    float64            `json:"pricePerUnit"`
	AvailableAmount float64            `json:"availableAmount"`
	MinLimit        float64            `json:"minLimit"`
	MaxLimit        float64            `json:"maxLimit"`
	PaymentMethods  []string           `json:"paymentMethods"`
	Status          models.OfferStatus `json:"status"`
	TradeCount      int                `json:"tradeCount"`
	CompletionRate  float64            `json:"completionRate"`
	CreatedAt       time.Time          `json:"createdAt"`
	Seller          *SellerView        `json:"seller"`
}

type OfferService struct {
	offers   OfferRepository
	profiles ProfileRepository
	stats    TraderStatsRepository
}

func NewOfferService(offers OfferRepository, profiles ProfileRepository, stats TraderStatsRepository) *OfferService {
	return &OfferService{offers: offers, profiles: profiles, stats: stats}
}

// ListActiveOffers returns active offers newest first, each joined with its seller's
// profile and trader stats. Missing profiles or stats are not errors.
func (s *OfferService) ListActiveOffers(ctx context.Context) ([]OfferView, error) {
	offers, err := s.offers.ListByStatus(ctx, models.OfferActive)
	if err != nil {
		return nil, err
	}

	views := make([]OfferView, len(offers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sellerLookupConcurrency)
	for i := range offers {
		g.Go(func() error {
			seller, err := s.seller(gctx, offers[i].UserID)
			if err != nil {
				return err
			}
			views[i] = newOfferView(offers[i], seller)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *OfferService) seller(ctx context.Context, userID string) (*SellerView, error) {
	profile, err := s.profiles.FindSummaryByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	seller := &SellerView{
		Username:       profile.Username,
		Bio:            profile.Bio,
		ProfilePicture: profile.ProfilePicture,
		WalletAddress:  profile.WalletAddress,
	}

	stats, err := s.stats.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		seller.TraderStats = newTraderStatsView(stats)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return seller, nil
}

func newOfferView(o models.Offer, seller *SellerView) OfferView {
	return OfferView{
		AdsID:           o.AdsID,
		Title:           o.Title,
		Description:     o.Description,
		AssetType:       o.AssetType,
		FiatCurrency:    o.FiatCurrency,
		PricePerUnit:    o.PricePerUnit,
		AvailableAmount: o.AvailableAmount,
		MinLimit:        o.MinLimit,
		MaxLimit:        o.MaxLimit,
		PaymentMethods:  o.PaymentMethods,
		Status:          o.Status,
		TradeCount:      o.TradeCount,
		CompletionRate:  o.CompletionRate,
		CreatedAt:       o.CreatedAt,
		Seller:          seller,
	}
}

func newTraderStatsView(st *models.TraderStats) *TraderStatsView {
	return &TraderStatsView{
		TotalOrders:        st.TotalOrders,
		SuccessfulOrders:   st.SuccessfulOrders,
		CancelledOrders:    st.CancelledOrders,
		PositivityRate:     st.PositivityRate,
		AverageReleaseTime: st.AverageReleaseTime,
		AveragePaymentTime: st.AveragePaymentTime,
		BankDetails:        st.BankDetails,
		UpdatedAt:          st.UpdatedAt,
	}
}
