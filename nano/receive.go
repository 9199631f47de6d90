package nano

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/AlexZinkM/nano-wallet/internal/block"
	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"golang.org/x/sync/errgroup"
)

// Receive pockets every receivable block of an account, in the order the
// node lists them. An empty address means the only account of the wallet.
// Nothing receivable is an empty result, not an error. Failures are
// reported like Send.
func (o *Orchestrator) Receive(ctx context.Context, address string) ([]model.BlockResult, error) {
	signer, err := o.signer(address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	defer signer.Clear()

	o.locks.Lock(signer.Address)
	defer o.locks.Unlock(signer.Address)

	entries, err := o.receivable(ctx, signer.Address)
	if err != nil {
		return nil, &model.PartialOperationFailure{
			Target: signer.Address,
			Stage:  model.StageFetching,
			Err:    err,
		}
	}

	results := make([]model.BlockResult, 0, len(entries))
	if len(entries) == 0 {
		log.Debugf("Nothing to receive for %v", signer.Address)
		return results, nil
	}

	log.Debugf("Receiving %d block(s) for %v", len(entries), signer.Address)

	for i, entry := range entries {
		fail := func(stage model.Stage, pending *model.StateBlock, err error) error {
			log.Errorf("Receive %d/%d of %v for %v failed while %v: %v",
				i+1, len(entries), entry.Hash, signer.Address, stage, err)

			return &model.PartialOperationFailure{
				Committed: committedBlocks(results),
				Index:     i,
				Target:    entry.Hash,
				Stage:     stage,
				Pending:   pending,
				Err:       err,
			}
		}

		amount, err := common.ParseRaw(entry.Amount)
		if err != nil {
			return results, fail(model.StageBuilding, nil, err)
		}

		s := o.publish(ctx, signer, block.Params{
			Kind:           block.KindReceive,
			Amount:         amount,
			Source:         entry.Hash,
			Representative: o.cfg.Representative,
		})
		if s.err != nil {
			return results, fail(s.stage, s.block, s.err)
		}
		results = append(results, blockResult(s))
	}

	return results, nil
}

// Receivable lists the send blocks waiting to be received by an account,
// without pocketing them. An empty address means the only account.
func (o *Orchestrator) Receivable(ctx context.Context, address string) ([]model.Receivable, error) {
	acc, err := o.session.ResolveSource(address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	o.locks.Lock(acc.Address)
	defer o.locks.Unlock(acc.Address)

	entries, err := o.receivable(ctx, acc.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to list receivable: %w", err)
	}
	return entries, nil
}

// receivable lists receivable entries of address, minus those already
// pocketed by blocks the node does not report yet. The account lock must
// be held.
func (o *Orchestrator) receivable(ctx context.Context, address string) ([]model.Receivable, error) {
	entries, err := o.node.Receivable(ctx, address)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(entries, func(entry model.Receivable) bool {
		if !o.tips.pocketed(address, entry.Hash) {
			return false
		}
		log.Debugf("Skipping %v for %v, already received by a tracked block",
			entry.Hash, address)
		return true
	}), nil
}

// ReceiveAll runs Receive for every account of the wallet. Accounts are
// independent chains, so they are processed concurrently; one account
// failing does not stop the others.
func (o *Orchestrator) ReceiveAll(ctx context.Context) *model.ReceiveResponse {
	accounts := o.session.Accounts()

	resp := &model.ReceiveResponse{
		Accounts: make(map[string][]model.BlockResult, len(accounts)),
	}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(o.cfg.ReceiveConcurrency)

	for _, acc := range accounts {
		acc := acc
		g.Go(func() error {
			results, err := o.Receive(ctx, acc.Address)

			mu.Lock()
			defer mu.Unlock()

			resp.Accounts[acc.Address] = results
			if err != nil {
				if resp.Errors == nil {
					resp.Errors = make(map[string]string)
				}
				resp.Errors[acc.Address] = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return resp
}
