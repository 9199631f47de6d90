package nano

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/model"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"

	"github.com/holiman/uint256"
)

// Balances gets balance and receivable amount of one account (by address)
// or, with an empty address, of every account. When currency is set and a
// price source is configured, the total is also valued in that currency.
func (o *Orchestrator) Balances(ctx context.Context, address, currency string) (*model.BalanceResponse, error) {
	var addresses []string
	if address != "" {
		acc, err := o.session.FindAccount(wallet.ByAddress(address))
		if err != nil {
			return nil, err
		}
		addresses = []string{acc.Address}
	} else {
		for _, acc := range o.session.Accounts() {
			addresses = append(addresses, acc.Address)
		}
	}

	balances, err := o.node.AccountsBalances(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	total := new(uint256.Int)
	resp := &model.BalanceResponse{
		Accounts: make([]model.AccountBalance, 0, len(addresses)),
	}
	for _, addr := range addresses {
		b, ok := balances[addr]
		if !ok {
			b = model.AccountBalance{Address: addr, Balance: "0", Receivable: "0"}
		}

		balance, err := common.ParseRaw(b.Balance)
		if err != nil {
			return nil, fmt.Errorf("%w: bad balance for %s: %v", model.ErrNetworkFailure, addr, err)
		}
		receivable, err := common.ParseRaw(b.Receivable)
		if err != nil {
			return nil, fmt.Errorf("%w: bad receivable for %s: %v", model.ErrNetworkFailure, addr, err)
		}
		total.Add(total, balance)

		resp.Accounts = append(resp.Accounts, model.AccountBalance{
			Address:        addr,
			Balance:        balance.Dec(),
			Receivable:     receivable.Dec(),
			BalanceNano:    common.RawToNano(balance),
			ReceivableNano: common.RawToNano(receivable),
		})
	}
	resp.TotalNano = common.RawToNano(total)

	if currency == "" || o.cfg.Prices == nil {
		return resp, nil
	}

	rate, err := o.cfg.Prices.GetNanoRate(ctx, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	// Float only for display, never for balances.
	totalFloat, err := strconv.ParseFloat(resp.TotalNano, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to value total %s: %w", resp.TotalNano, err)
	}
	rateFloat, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad %s rate %q: %v", model.ErrNetworkFailure, currency, rate, err)
	}

	resp.Currency = currency
	resp.Rate = rate
	resp.Fiat = fmt.Sprintf("%.2f", totalFloat*rateFloat)

	return resp, nil
}
