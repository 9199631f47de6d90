package nano

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/block"
	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/holiman/uint256"
)

type payment struct {
	address string
	amount  *uint256.Int
}

// Send pays every destination of req from one account, one send block per
// destination, in order. Amounts are NANO.
//
// Requests are validated before the node is contacted. Once the first block
// is in flight, a failure stops the operation and is returned as a
// *model.PartialOperationFailure; the response still lists the blocks that
// were committed before it. Publishing is never retried.
func (o *Orchestrator) Send(ctx context.Context, req *model.SendRequest) (*model.SendResponse, error) {
	payments, err := parsePayments(req)
	if err != nil {
		return nil, err
	}

	signer, err := o.signer(req.From)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source account: %w", err)
	}
	defer signer.Clear()

	o.locks.Lock(signer.Address)
	defer o.locks.Unlock(signer.Address)

	log.Debugf("Sending from %v to %d destination(s)", signer.Address, len(payments))

	resp := &model.SendResponse{Blocks: make([]model.BlockResult, 0, len(payments))}
	for i, p := range payments {
		s := o.publish(ctx, signer, block.Params{
			Kind:        block.KindSend,
			Amount:      p.amount,
			Destination: p.address,
		})
		if s.err != nil {
			log.Errorf("Send %d/%d from %v to %v failed while %v: %v",
				i+1, len(payments), signer.Address, p.address, s.stage, s.err)

			return resp, &model.PartialOperationFailure{
				Committed: committedBlocks(resp.Blocks),
				Index:     i,
				Target:    p.address,
				Stage:     s.stage,
				Pending:   s.block,
				Err:       s.err,
			}
		}
		resp.Blocks = append(resp.Blocks, blockResult(s))
	}

	return resp, nil
}

// parsePayments validates destinations and amounts of a send request
func parsePayments(req *model.SendRequest) ([]payment, error) {
	if len(req.To) == 0 {
		return nil, fmt.Errorf("%w: no destinations", model.ErrInvalidAddress)
	}

	payments := make([]payment, 0, len(req.To))
	for i, dest := range req.To {
		address, err := keys.NormalizeAddress(dest.Address)
		if err != nil {
			return nil, fmt.Errorf("destination %d: %w", i+1, err)
		}

		amount := dest.Amount
		if amount == "" {
			amount = req.Amount
		}
		raw, err := common.NanoToRaw(amount)
		if err != nil {
			return nil, fmt.Errorf("destination %d: %w", i+1, err)
		}
		if raw.IsZero() {
			return nil, fmt.Errorf("destination %d: %w: amount must be greater than zero",
				i+1, model.ErrInvalidAmount)
		}

		payments = append(payments, payment{address: address, amount: raw})
	}
	return payments, nil
}
