package model

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/nano-wallet/internal/common"
)

// TransactionType transaction type
type TransactionType string

const (
	TransactionTypeSend    TransactionType = "send"
	TransactionTypeReceive TransactionType = "receive"
)

// Transaction represents an account history entry
type Transaction struct {
	Type      TransactionType `json:"type"`
	Hash      string          `json:"hash"`
	Account   string          `json:"account"` // counterparty
	Amount    string          `json:"amount"`  // NANO
	AmountRaw string          `json:"amount_raw"`
	Timestamp time.Time       `json:"timestamp"`
	Height    uint64          `json:"height"`
	Confirmed bool            `json:"confirmed"`
}

// HistoryResponse represents response for GET /nano/history
type HistoryResponse struct {
	Address       string        `json:"address"`
	TotalReceived string        `json:"total_received"`
	TotalSent     string        `json:"total_sent"`
	Transactions  []Transaction `json:"transactions"`
}

// HistoryRequest represents filter parameters for GET /nano/history
type HistoryRequest struct {
	Account   string
	Count     int
	Type      *TransactionType
	Hash      *string
	From      *time.Time
	To        *time.Time
	MinAmount *string // NANO
	MaxAmount *string // NANO
}

// Validate validates HistoryRequest filter parameters.
func (r *HistoryRequest) Validate() error {
	if r.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	if r.Type != nil && *r.Type != TransactionTypeSend && *r.Type != TransactionTypeReceive {
		return fmt.Errorf("type must be send or receive")
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	if r.MinAmount != nil && r.MaxAmount != nil {
		cmp, err := common.CompareAmounts(*r.MinAmount, *r.MaxAmount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmp == 1 {
			return fmt.Errorf("minAmount must be less than or equal to maxAmount")
		}
	}
	return nil
}
