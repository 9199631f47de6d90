package nano

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/block"
	"github.com/AlexZinkM/nano-wallet/internal/client"
	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"

	"github.com/holiman/uint256"
)

const (
	// DefaultRepresentative is used for open blocks when none is configured
	DefaultRepresentative = "nano_1kd4h9nqaxengni43xy9775gcag8ptw8ddjifnm77qes1efuoqikoqy5sjq3"

	defaultReceiveConcurrency = 4
)

// Node is the ledger node RPC used by the orchestrator.
type Node interface {
	AccountInfo(ctx context.Context, account string) (*model.AccountInfo, error)
	Receivable(ctx context.Context, account string) ([]model.Receivable, error)
	WorkGenerate(ctx context.Context, root string) (string, error)
	AccountKey(ctx context.Context, account string) (string, error)
	Process(ctx context.Context, block *model.StateBlock) (string, error)
	AccountsBalances(ctx context.Context, accounts []string) (map[string]model.AccountBalance, error)
	AccountHistory(ctx context.Context, account string, count int) ([]client.HistoryEntry, error)
}

// PriceSource quotes the price of one NANO in a fiat currency
type PriceSource interface {
	GetNanoRate(ctx context.Context, currency string) (string, error)
}

// Config configures an Orchestrator
type Config struct {
	// Representative for newly opened accounts
	Representative string
	// ReceiveConcurrency bounds how many accounts ReceiveAll processes at once
	ReceiveConcurrency int
	// Prices is optional; without it balances carry no fiat value
	Prices PriceSource
}

// Orchestrator turns wallet operations into sequences of published blocks.
// Operations on one account are serialized; different accounts run in
// parallel.
type Orchestrator struct {
	session *wallet.Session
	node    Node
	cfg     Config

	locks *accountMutex
	tips  *tipTracker
}

// New creates an orchestrator over an unlocked wallet session
func New(session *wallet.Session, node Node, cfg Config) (*Orchestrator, error) {
	if cfg.Representative == "" {
		cfg.Representative = DefaultRepresentative
	}
	rep, err := keys.NormalizeAddress(cfg.Representative)
	if err != nil {
		return nil, fmt.Errorf("invalid default representative: %w", err)
	}
	cfg.Representative = rep

	if cfg.ReceiveConcurrency <= 0 {
		cfg.ReceiveConcurrency = defaultReceiveConcurrency
	}

	return &Orchestrator{
		session: session,
		node:    node,
		cfg:     cfg,
		locks:   newAccountMutex(),
		tips:    newTipTracker(),
	}, nil
}

// Session returns the wallet session the orchestrator signs with
func (o *Orchestrator) Session() *wallet.Session {
	return o.session
}

// step is one block of an operation together with where it failed
type step struct {
	stage model.Stage
	block *model.StateBlock
	// amount is the raw balance change of block
	amount *uint256.Int
	err    error
}

// publish runs fetch -> build -> work -> publish for one block of address.
// The account lock must be held. The tracked tip only moves once the node
// accepted the block.
func (o *Orchestrator) publish(ctx context.Context, signer *keys.KeyPair, params block.Params) step {
	address := signer.Address

	info, err := o.node.AccountInfo(ctx, address)
	if err != nil {
		return step{stage: model.StageFetching, err: err}
	}
	snapshot, err := o.tips.reconcile(address, info)
	if err != nil {
		return step{stage: model.StageFetching, err: err}
	}

	b, err := block.Build(snapshot, signer, params)
	if err != nil {
		return step{stage: model.StageBuilding, err: err}
	}
	amount, err := block.Amount(b, snapshot.Balance)
	if err != nil {
		return step{stage: model.StageBuilding, block: b, err: err}
	}

	root, err := block.WorkRoot(b)
	if err != nil {
		return step{stage: model.StageWorking, block: b, err: err}
	}
	work, err := o.node.WorkGenerate(ctx, root)
	if err != nil {
		return step{stage: model.StageWorking, block: b, err: err}
	}
	if err := block.SetWork(b, work); err != nil {
		return step{stage: model.StageWorking, block: b, err: fmt.Errorf("%w: %v", model.ErrNetworkFailure, err)}
	}

	hash, err := o.node.Process(ctx, b)
	if err != nil {
		// Without an answer from the node the block may or may not be on
		// the ledger, so the tracked tip can no longer be trusted.
		var nodeErr *client.NodeError
		if !errors.As(err, &nodeErr) {
			log.Warnf("Publishing %v block %v for %v ended without a node answer, "+
				"dropping tracked tip", b.Subtype, b.Hash, address)
			o.tips.forget(address)
		}
		return step{stage: model.StagePublishing, block: b, err: err}
	}
	if !strings.EqualFold(hash, b.Hash) {
		log.Warnf("Node reported hash %v for %v block %v", hash, b.Subtype, b.Hash)
	}

	o.tips.record(snapshot, b)
	log.Infof("Published %v block %v for %v", b.Subtype, b.Hash, address)

	return step{stage: model.StageCommitted, block: b, amount: amount}
}

// signer resolves an account and returns its keys
func (o *Orchestrator) signer(address string) (*keys.KeyPair, error) {
	acc, err := o.session.ResolveSource(address)
	if err != nil {
		return nil, err
	}
	return o.session.KeyPair(acc)
}

// blockResult describes a committed step
func blockResult(s step) model.BlockResult {
	return model.BlockResult{
		Hash:    s.block.Hash,
		Subtype: s.block.Subtype,
		Amount:  common.RawToNano(s.amount),
		Block:   s.block,
	}
}

func committedBlocks(results []model.BlockResult) []*model.StateBlock {
	blocks := make([]*model.StateBlock, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, r.Block)
	}
	return blocks
}
