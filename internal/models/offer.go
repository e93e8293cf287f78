package models

import "time"

type OfferStatus string

const (
	OfferActive    OfferStatus = "active"
	OfferCompleted OfferStatus = "completed"
	OfferCancelled OfferStatus = "cancelled"
)

const (
	DefaultFiatCurrency   = "NGN"
	DefaultCompletionRate = 100.0
)

// Offer is a marketplace ad, usually mirrored from an on-chain posting identified by AdsID.
type Offer struct {
	ID              string      `json:"id" db:"id"`
	UserID          string      `json:"userId" db:"user_id"`
	AdsID           string      `json:"adsId" db:"ads_id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	AssetType       string      `json:"assetType" db:"asset_type"`
	FiatCurrency    string      `json:"fiatCurrency" db:"fiat_currency"`
	PricePerUnit    float64     `json:"pricePerUnit" db:"price_per_unit"`
	AvailableAmount float64     `json:"availableAmount" db:"available_amount"`
	MinLimit        float64     `json:"minLimit" db:"min_limit"`
	MaxLimit        float64     `json:"maxLimit" db:"max_limit"`
	Status          OfferStatus `json:"status" db:"status"`
	PaymentMethods  []string    `json:"paymentMethods" db:"payment_methods"`
	TradeCount      int         `json:"tradeCount" db:"trade_count"`
	CompletionRate  float64     `json:"completionRate" db:"completion_rate"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}
