package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankDetails struct {
	BankName        string `json:"bankName" db:"bank_name" validate:"required"`
	AccountNumber   string `json:"accountNumber" db:"account_number" validate:"required"`
	AccountUsername string `json:"accountUsername" db:"account_username" validate:"required"`
}

// TraderStats is the per-user reputation aggregate. Average times are in minutes.
type TraderStats struct {
	UserID             string      `json:"userId" db:"user_id"`
	TotalOrders        int         `json:"totalOrders" db:"total_orders"`
	SuccessfulOrders   int         `json:"successfulOrders" db:"successful_orders"`
	CancelledOrders    int         `json:"cancelledOrders" db:"cancelled_orders"`
	PositivityRate     float64     `json:"positivityRate" db:"positivity_rate"`
	AverageReleaseTime float64     `json:"averageReleaseTime" db:"average_release_time"`
	AveragePaymentTime float64     `json:"averagePaymentTime" db:"average_payment_time"`
	BankDetails        BankDetails `json:"bankDetails"`
	UpdatedAt          time.Time   `json:"updatedAt" db:"updated_at"`
}

// PositivityRate is successful/total as a percentage rounded to 2 decimals, or 0 with no orders.
func PositivityRate(successful, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(successful)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}

// Recompute derives PositivityRate from the order counters, discarding whatever was set before.
func (s *TraderStats) Recompute() {
	s.PositivityRate = PositivityRate(s.SuccessfulOrders, s.TotalOrders)
}
