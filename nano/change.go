package nano

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/block"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// ChangeRepresentative publishes a change block delegating the account's
// weight to representative. The account must already be opened.
func (o *Orchestrator) ChangeRepresentative(ctx context.Context, address, representative string) (*model.BlockResult, error) {
	rep, err := keys.NormalizeAddress(representative)
	if err != nil {
		return nil, fmt.Errorf("invalid representative: %w", err)
	}

	signer, err := o.signer(address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	defer signer.Clear()

	o.locks.Lock(signer.Address)
	defer o.locks.Unlock(signer.Address)

	s := o.publish(ctx, signer, block.Params{
		Kind:           block.KindChange,
		Representative: rep,
	})
	if s.err != nil {
		return nil, &model.PartialOperationFailure{
			Target:  rep,
			Stage:   s.stage,
			Pending: s.block,
			Err:     s.err,
		}
	}

	result := blockResult(s)
	return &result, nil
}
