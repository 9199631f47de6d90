package nano

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// AccountInfo reports the chain state the next block of an account would be
// built on: the node snapshot, or the tracked tip while the node lags.
func (o *Orchestrator) AccountInfo(ctx context.Context, address string) (*model.AccountInfoResponse, error) {
	acc, err := o.session.ResolveSource(address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	o.locks.Lock(acc.Address)
	defer o.locks.Unlock(acc.Address)

	info, err := o.node.AccountInfo(ctx, acc.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to get account info: %w", err)
	}
	state, err := o.tips.reconcile(acc.Address, info)
	if err != nil {
		return nil, err
	}

	balance, err := common.ParseRaw(state.Balance)
	if err != nil {
		return nil, fmt.Errorf("%w: bad balance for %s: %v", model.ErrNetworkFailure, acc.Address, err)
	}

	resp := &model.AccountInfoResponse{
		Address:     acc.Address,
		Balance:     balance.Dec(),
		BalanceNano: common.RawToNano(balance),
		Opened:      state.Opened,
		Unconfirmed: !strings.EqualFold(state.Frontier, info.Frontier),
	}
	if state.Opened {
		resp.Frontier = state.Frontier
		resp.Representative = state.Representative
	}
	return resp, nil
}
