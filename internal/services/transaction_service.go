package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swap24/backend/internal/models"
	"github.com/swap24/backend/internal/monitor"
	"github.com/swap24/backend/internal/store"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

// EventNewTransaction is the realtime event name for a freshly appended ledger entry.
const EventNewTransaction = "newTransaction"

// RecordTransactionRequest represents a ledger append
// @Description Transaction request structure
type RecordTransactionRequest struct {
	UserID       string                   `json:"userId" validate:"required" example:"6f1c0f8e-3c7a-4d8e-9f38-1b2a6c1d2e3f"`
	Type         models.TransactionType   `json:"type" validate:"required,oneof=deposit withdrawal swap purchase transfer adPlacement" example:"deposit"`
	Asset        string                   `json:"asset" validate:"required" example:"USDT"`
	Amount       float64                  `json:"amount" validate:"required" example:"50"`
	ValueInNaira *float64                 `json:"valueInNaira,omitempty" example:"75000"`
	Status       models.TransactionStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed failed" example:"pending"`
	TxHash       *string                  `json:"txHash,omitempty"`
	Description  *string                  `json:"transactionDescription,omitempty"`
}

// RecordAdRequest mirrors an ad that was just posted on chain
// @Description On-chain ad record structure
type RecordAdRequest struct {
	UserID          string   `json:"userId" validate:"required"`
	AdsID           string   `json:"adsId" validate:"required" example:"AD-1"`
	AssetType       string   `json:"assetType" validate:"required" example:"USDT"`
	PricePerUnit    float64  `json:"pricePerUnit" validate:"required,gt=0" example:"1500"`
	AvailableAmount float64  `json:"availableAmount" validate:"required,gt=0" example:"100"`
	Title           string   `json:"title,omitempty" example:"USDT at a good rate"`
	Description     string   `json:"description,omitempty"`
	FiatCurrency    string   `json:"fiatCurrency,omitempty" example:"NGN"`
	MinLimit        float64  `json:"minLimit,omitempty" validate:"gte=0"`
	MaxLimit        float64  `json:"maxLimit,omitempty" validate:"gte=0"`
	PaymentMethods  []string `json:"paymentMethods,omitempty" example:"Bank Transfer,Opay"`
	TxHash          *string  `json:"txHash,omitempty"`
}

// RecordAdResult holds both records written by RecordOfferFromChain
type RecordAdResult struct {
	Offer       *models.Offer      `json:"offer"`
	Transaction models.Transaction `json:"transaction"`
}

// TransactionService is the ledger recorder. Every append is one atomic store
// update followed by a best-effort realtime publish.
type TransactionService struct {
	profiles  ProfileRepository
	offers    OfferRepository
	publisher Publisher
	validator *ValidationHelper
	now       func() time.Time
	log       *zap.Logger
}

func NewTransactionService(profiles ProfileRepository, offers OfferRepository, publisher Publisher) *TransactionService {
	return &TransactionService{
		profiles:  profiles,
		offers:    offers,
		publisher: publisher,
		validator: NewValidationHelper(),
		now:       time.Now,
		log:       logger.Named("ledger"),
	}
}

// RecordTransaction appends one entry to the user's ledger and notifies the user's channel.
func (s *TransactionService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*models.Transaction, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}

	entry := models.Transaction{
		ID:     uuid.NewString(),
		Type:   req.Type,
		Asset:  req.Asset,
		Amount: req.Amount,
		Status: models.TransactionPending,
		TxHash: nonEmpty(req.TxHash),
		Date:   s.now().UTC(),
	}
	if req.ValueInNaira != nil {
		entry.ValueInNaira = *req.ValueInNaira
	}
	if req.Status != "" {
		entry.Status = req.Status
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}

	if err := s.append(ctx, req.UserID, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RecordOfferFromChain stores the local mirror of an on-chain ad and logs an
// adPlacement entry worth price x amount. The two writes are independent: if the
// ledger append fails the offer stays.
func (s *TransactionService) RecordOfferFromChain(ctx context.Context, req RecordAdRequest) (*RecordAdResult, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, err
	}
	if req.MaxLimit > 0 && req.MinLimit > req.MaxLimit {
		return nil, fmt.Errorf("%w: minLimit exceeds maxLimit", ErrValidation)
	}

	now := s.now().UTC()
	offer := &models.Offer{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		AdsID:           req.AdsID,
		Title:           req.Title,
		Description:     req.Description,
		AssetType:       req.AssetType,
		FiatCurrency:    req.FiatCurrency,
		PricePerUnit:    req.PricePerUnit,
		AvailableAmount: req.AvailableAmount,
		MinLimit:        req.MinLimit,
		MaxLimit:        req.MaxLimit,
		Status:          models.OfferActive,
		PaymentMethods:  uniqueStrings(req.PaymentMethods),
		CompletionRate:  models.DefaultCompletionRate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if offer.FiatCurrency == "" {
		offer.FiatCurrency = models.DefaultFiatCurrency
	}
	if offer.Title == "" {
		offer.Title = fmt.Sprintf("%s for %s", req.AssetType, offer.FiatCurrency)
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("ad %s %w", req.AdsID, ErrConflict)
		}
		return nil, err
	}

	value := decimal.NewFromFloat(req.PricePerUnit).Mul(decimal.NewFromFloat(req.AvailableAmount))
	entry := models.Transaction{
		ID:           uuid.NewString(),
		Type:         models.TransactionAdPlacement,
		Asset:        req.AssetType,
		Amount:       req.AvailableAmount,
		ValueInNaira: value.InexactFloat64(),
		Status:       models.TransactionCompleted,
		TxHash:       nonEmpty(req.TxHash),
		Date:         now,
		Description: fmt.Sprintf("Placed ad %s: %s %s at %s %s per unit",
			req.AdsID, decimal.NewFromFloat(req.AvailableAmount), req.AssetType,
			decimal.NewFromFloat(req.PricePerUnit), offer.FiatCurrency),
	}

	if err := s.append(ctx, req.UserID, entry); err != nil {
		s.log.Error("ad stored without ledger entry", zap.String("ads_id", req.AdsID), zap.Error(err))
		return nil, err
	}
	monitor.AdValueNairaTotal.WithLabelValues(req.AssetType).Add(entry.ValueInNaira)

	return &RecordAdResult{Offer: offer, Transaction: entry}, nil
}

// GetTransactions returns the ledger in the order entries were appended.
func (s *TransactionService) GetTransactions(ctx context.Context, userID string) (models.Transactions, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	ledger, err := s.profiles.Transactions(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("user profile %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = models.Transactions{}
	}
	return ledger, nil
}

func (s *TransactionService) append(ctx context.Context, userID string, entry models.Transaction) error {
	err := s.profiles.AppendTransaction(ctx, userID, entry)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user profile %w", ErrNotFound)
	}
	if err != nil {
		return err
	}
	monitor.TransactionsRecordedTotal.WithLabelValues(string(entry.Type)).Inc()

	// Delivery is best effort; the entry is already committed.
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, userID, EventNewTransaction, entry); err != nil {
			s.log.Warn("realtime publish failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// uniqueStrings trims, drops blanks and removes duplicates, keeping first-seen order.
func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
