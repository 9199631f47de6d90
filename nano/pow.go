package nano

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// Pow requests proof of work for the next block of an account. The root is
// the given frontier, else the current frontier, else (unopened account)
// the account public key.
func (o *Orchestrator) Pow(ctx context.Context, req *model.PowRequest) (*model.PowResponse, error) {
	acc, err := o.session.ResolveSource(req.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	// A publish in flight would move the frontier under us.
	o.locks.Lock(acc.Address)
	defer o.locks.Unlock(acc.Address)

	root := req.Frontier
	if root == "" {
		if tracked, ok := o.tips.frontier(acc.Address); ok {
			root = tracked
		}
	}
	if root == "" {
		info, err := o.node.AccountInfo(ctx, acc.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to get account info: %w", err)
		}
		root = info.Frontier
		if !info.Opened {
			if root, err = o.node.AccountKey(ctx, acc.Address); err != nil {
				return nil, fmt.Errorf("failed to get account key: %w", err)
			}
		}
	}
	root = strings.ToUpper(root)

	work, err := o.node.WorkGenerate(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to generate work: %w", err)
	}

	return &model.PowResponse{Root: root, Work: work}, nil
}
