package nano

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// tip is the locally known head of an account chain. chain[0] is the node
// frontier we first built on ("" for an unopened account), followed by the
// hashes of the blocks we published since, oldest first.
type tip struct {
	balance        string
	representative string
	chain          []string

	// pocketed holds the source hashes of receive blocks in chain. A lagging
	// node keeps listing them as receivable.
	pocketed map[string]struct{}
}

func (t *tip) frontier() string {
	return t.chain[len(t.chain)-1]
}

// tipTracker remembers blocks published by this process that the node may
// not report yet. Entries live in memory only.
type tipTracker struct {
	mu   sync.Mutex
	tips map[string]*tip
}

func newTipTracker() *tipTracker {
	return &tipTracker{
		tips: make(map[string]*tip),
	}
}

// reconcile merges a node snapshot with the tracked tip of address and
// returns the state the next block must be built on.
//
// If the node frontier is the tracked tip, the node has caught up and
// tracking ends. If it is an older entry of the tracked chain, the node is
// lagging and the tracked state wins. Anything else means the chain moved
// without us: tracking is dropped and ErrLedgerMismatch returned.
func (t *tipTracker) reconcile(address string, snapshot *model.AccountInfo) (model.AccountInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracked, ok := t.tips[address]
	if !ok {
		return *snapshot, nil
	}

	nodeFrontier := ""
	if snapshot.Opened {
		nodeFrontier = strings.ToUpper(snapshot.Frontier)
	}

	idx := slices.Index(tracked.chain, nodeFrontier)
	switch {
	case idx == len(tracked.chain)-1:
		delete(t.tips, address)
		return *snapshot, nil

	case idx >= 0:
		tracked.chain = tracked.chain[idx:]
		log.Debugf("Node is %d block(s) behind on %v, building on tracked tip %v",
			len(tracked.chain)-1, address, tracked.frontier())

		return model.AccountInfo{
			Frontier:       tracked.frontier(),
			Balance:        tracked.balance,
			Representative: tracked.representative,
			Opened:         true,
		}, nil

	default:
		delete(t.tips, address)
		return model.AccountInfo{}, fmt.Errorf("%w: node reports %q, tracked tip is %s",
			model.ErrLedgerMismatch, snapshot.Frontier, tracked.frontier())
	}
}

// record advances the tracked tip of the block's account after a publish.
// base is the frontier the block was built on.
func (t *tipTracker) record(base model.AccountInfo, b *model.StateBlock) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracked, ok := t.tips[b.Account]
	if !ok {
		root := ""
		if base.Opened {
			root = strings.ToUpper(base.Frontier)
		}
		tracked = &tip{
			chain:    []string{root},
			pocketed: make(map[string]struct{}),
		}
		t.tips[b.Account] = tracked
	}

	tracked.chain = append(tracked.chain, strings.ToUpper(b.Hash))
	if b.Subtype == model.SubtypeReceive || b.Subtype == model.SubtypeOpen {
		tracked.pocketed[strings.ToUpper(b.Link)] = struct{}{}
	}
	tracked.balance = b.Balance
	tracked.representative = b.Representative
}

// forget drops tracking for address. Used when the outcome of a publish is
// unknown, so the next block starts from the node state.
func (t *tipTracker) forget(address string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.tips, address)
}

// frontier returns the tracked tip of address, if any
func (t *tipTracker) frontier(address string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracked, ok := t.tips[address]
	if !ok {
		return "", false
	}
	return tracked.frontier(), true
}

// pocketed reports whether a tracked block of address already received the
// send block source
func (t *tipTracker) pocketed(address, source string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracked, ok := t.tips[address]
	if !ok {
		return false
	}
	_, ok = tracked.pocketed[strings.ToUpper(source)]
	return ok
}
