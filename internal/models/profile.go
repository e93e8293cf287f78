package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Profile is one-to-one with User and carries the transaction ledger.
type Profile struct {
	ID             string       `json:"id" db:"id"`
	UserID         string       `json:"userId" db:"user_id"`
	Username       string       `json:"username" db:"username"`
	Bio            *string      `json:"bio" db:"bio"`
	ProfilePicture *string      `json:"profilePicture" db:"profile_picture"`
	WalletAddress  *string      `json:"walletAddress" db:"wallet_address"`
	Balance        Balance      `json:"balance" db:"balance"`
	Transactions   Transactions `json:"transactions" db:"transactions"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time    `json:"updatedAt" db:"updated_at"`
}

// Balance is a snapshot of fiat and per-asset crypto holdings. Crypto keys are asset symbols.
type Balance struct {
	Naira  float64            `json:"naira"`
	Crypto map[string]float64 `json:"crypto"`
}

func NewBalance() Balance {
	return Balance{Crypto: map[string]float64{}}
}

// Value implements driver.Valuer for Balance
func (b Balance) Value() (driver.Value, error) {
	if b.Crypto == nil {
		b.Crypto = map[string]float64{}
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for Balance
func (b *Balance) Scan(value any) error {
	if value == nil {
		*b = NewBalance()
		return nil
	}

	raw, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	if err := json.Unmarshal(raw, b); err != nil {
		return err
	}
	if b.Crypto == nil {
		b.Crypto = map[string]float64{}
	}
	return nil
}
