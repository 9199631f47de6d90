package nano

import (
	"context"
	"fmt"
	"sort"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/holiman/uint256"
)

const defaultHistoryCount = 100

// History gets the send/receive history of an account with filtering,
// newest first
func (o *Orchestrator) History(ctx context.Context, req *model.HistoryRequest) (*model.HistoryResponse, error) {
	acc, err := o.session.ResolveSource(req.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	count := req.Count
	if count == 0 {
		count = defaultHistoryCount
	}

	entries, err := o.node.AccountHistory(ctx, acc.Address, count)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	var minRaw, maxRaw *uint256.Int
	if req.MinAmount != nil {
		if minRaw, err = common.NanoToRaw(*req.MinAmount); err != nil {
			return nil, fmt.Errorf("invalid min amount: %w", err)
		}
	}
	if req.MaxAmount != nil {
		if maxRaw, err = common.NanoToRaw(*req.MaxAmount); err != nil {
			return nil, fmt.Errorf("invalid max amount: %w", err)
		}
	}

	totalReceived, totalSent := new(uint256.Int), new(uint256.Int)
	transactions := make([]model.Transaction, 0, len(entries))
	for _, entry := range entries {
		txType := model.TransactionType(entry.Type)
		if txType != model.TransactionTypeSend && txType != model.TransactionTypeReceive {
			continue
		}

		// Filter by type
		if req.Type != nil && *req.Type != txType {
			continue
		}

		// Filter by hash
		if req.Hash != nil && *req.Hash != entry.Hash {
			continue
		}

		// Filter by dates
		if req.From != nil && entry.Timestamp.Before(*req.From) {
			continue
		}
		if req.To != nil && entry.Timestamp.After(*req.To) {
			continue
		}

		amount, err := common.ParseRaw(entry.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: bad amount in history: %v", model.ErrNetworkFailure, err)
		}

		// Filter by amount
		if minRaw != nil && amount.Lt(minRaw) {
			continue
		}
		if maxRaw != nil && amount.Gt(maxRaw) {
			continue
		}

		switch txType {
		case model.TransactionTypeReceive:
			totalReceived.Add(totalReceived, amount)
		case model.TransactionTypeSend:
			totalSent.Add(totalSent, amount)
		}

		transactions = append(transactions, model.Transaction{
			Type:      txType,
			Hash:      entry.Hash,
			Account:   entry.Account,
			Amount:    common.RawToNano(amount),
			AmountRaw: amount.Dec(),
			Timestamp: entry.Timestamp,
			Height:    entry.Height,
			Confirmed: entry.Confirmed,
		})
	}

	// Sort by height DESC (newest first)
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Height > transactions[j].Height
	})

	return &model.HistoryResponse{
		Address:       acc.Address,
		TotalReceived: common.RawToNano(totalReceived),
		TotalSent:     common.RawToNano(totalSent),
		Transactions:  transactions,
	}, nil
}
