package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type TransactionType string

const (
	TransactionDeposit     TransactionType = "deposit"
	TransactionWithdrawal  TransactionType = "withdrawal"
	TransactionSwap        TransactionType = "swap"
	TransactionPurchase    TransactionType = "purchase"
	TransactionTransfer    TransactionType = "transfer"
	TransactionAdPlacement TransactionType = "adPlacement"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one ledger entry embedded in a Profile. Entries are append-only.
type Transaction struct {
	ID           string            `json:"id"`
	Type         TransactionType   `json:"type"`
	Asset        string            `json:"asset"`
	Amount       float64           `json:"amount"`
	ValueInNaira float64           `json:"valueInNaira"`
	Status       TransactionStatus `json:"status"`
	TxHash       *string           `json:"txHash"`
	Date         time.Time         `json:"date"`
	Description  string            `json:"transactionDescription"`
}

// Transactions is the JSONB ledger column, kept in insertion order.
type Transactions []Transaction

// Value implements driver.Valuer for Transactions
func (t Transactions) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for Transactions
func (t *Transactions) Scan(value any) error {
	if value == nil {
		*t = Transactions{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, t)
}
