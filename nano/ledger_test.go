package nano

import (
	"context"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/AlexZinkM/nano-wallet/internal/block"
	"github.com/AlexZinkM/nano-wallet/internal/client"
	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/holiman/uint256"
)

const testWork = "7202df8a7c380578"

// fakeLedger is an in-memory node. Process enforces that every block
// extends the current frontier, so forks fail like on a real node.
type fakeLedger struct {
	mu sync.Mutex

	accounts   map[string]*model.AccountInfo
	receivable map[string][]model.Receivable
	history    map[string][]client.HistoryEntry
	calls      map[string]int

	// frozen, when set for an address, is what account_info reports
	// instead of the live state, to mimic a lagging node.
	frozen map[string]*model.AccountInfo
	// frozenReceivable is the receivable list reported while frozen.
	frozenReceivable map[string][]model.Receivable

	// processErr is consulted before a block is applied; n counts process
	// calls starting at 1.
	processErr func(n int, b *model.StateBlock) error
	// workHook runs inside work_generate before work is returned.
	workHook func(ctx context.Context) error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts:   make(map[string]*model.AccountInfo),
		receivable: make(map[string][]model.Receivable),
		history:    make(map[string][]client.HistoryEntry),
		calls:      make(map[string]int),
		frozen:     make(map[string]*model.AccountInfo),

		frozenReceivable: make(map[string][]model.Receivable),
	}
}

func (f *fakeLedger) fund(address, frontier, balance string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.accounts[address] = &model.AccountInfo{
		Frontier:       frontier,
		Balance:        balance,
		Representative: address,
		Opened:         true,
	}
}

// freeze makes account_info and receivable keep reporting the current
// state of address
func (f *fakeLedger) freeze(address string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info := model.AccountInfo{Balance: "0"}
	if live, ok := f.accounts[address]; ok {
		info = *live
	}
	f.frozen[address] = &info
	f.frozenReceivable[address] = append([]model.Receivable(nil), f.receivable[address]...)
}

func (f *fakeLedger) thaw(address string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.frozen, address)
	delete(f.frozenReceivable, address)
}

func (f *fakeLedger) state(address string) model.AccountInfo {
	f.mu.Lock()
	defer f.mu.Unlock()

	if info, ok := f.accounts[address]; ok {
		return *info
	}
	return model.AccountInfo{Balance: "0"}
}

func (f *fakeLedger) count(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[action]
}

func (f *fakeLedger) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeLedger) AccountInfo(ctx context.Context, account string) (*model.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["account_info"]++

	if info, ok := f.frozen[account]; ok {
		c := *info
		return &c, nil
	}
	if info, ok := f.accounts[account]; ok {
		c := *info
		return &c, nil
	}
	return &model.AccountInfo{Balance: "0"}, nil
}

func (f *fakeLedger) Receivable(ctx context.Context, account string) ([]model.Receivable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["receivable"]++

	if entries, ok := f.frozenReceivable[account]; ok {
		return append([]model.Receivable(nil), entries...), nil
	}
	return append([]model.Receivable(nil), f.receivable[account]...), nil
}

func (f *fakeLedger) WorkGenerate(ctx context.Context, root string) (string, error) {
	f.mu.Lock()
	f.calls["work_generate"]++
	hook := f.workHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return "", fmt.Errorf("%w: work_generate: %v", model.ErrNetworkFailure, err)
		}
	}
	return testWork, nil
}

func (f *fakeLedger) AccountKey(ctx context.Context, account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["account_key"]++

	public, err := keys.DecodeAddress(account)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrNetworkFailure, err)
	}
	return strings.ToUpper(hex.EncodeToString(public)), nil
}

func (f *fakeLedger) Process(ctx context.Context, b *model.StateBlock) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["process"]++

	if f.processErr != nil {
		if err := f.processErr(f.calls["process"], b); err != nil {
			return "", err
		}
	}

	if err := block.Verify(b); err != nil {
		return "", &client.NodeError{Action: "process", Message: "Bad signature"}
	}
	if b.Work == "" {
		return "", &client.NodeError{Action: "process", Message: "Block work is insufficient"}
	}

	current, opened := f.accounts[b.Account]
	previous := block.ZeroHash
	prevBalance := "0"
	if opened {
		previous = current.Frontier
		prevBalance = current.Balance
	}
	if !strings.EqualFold(previous, b.Previous) {
		return "", &client.NodeError{Action: "process", Message: "Fork"}
	}

	if b.Subtype == model.SubtypeSend {
		amount, err := block.Amount(b, prevBalance)
		if err != nil {
			return "", err
		}
		f.receivable[b.LinkAsAccount] = append(f.receivable[b.LinkAsAccount], model.Receivable{
			Hash:   b.Hash,
			Amount: amount.Dec(),
			Source: b.Account,
		})
	}
	if b.Subtype == model.SubtypeReceive || b.Subtype == model.SubtypeOpen {
		pending := f.receivable[b.Account]
		i := slices.IndexFunc(pending, func(r model.Receivable) bool {
			return strings.EqualFold(r.Hash, b.Link)
		})
		if i < 0 {
			return "", &client.NodeError{Action: "process", Message: "Unreceivable"}
		}
		f.receivable[b.Account] = append(pending[:i:i], pending[i+1:]...)
	}

	f.accounts[b.Account] = &model.AccountInfo{
		Frontier:       b.Hash,
		Balance:        b.Balance,
		Representative: b.Representative,
		Opened:         true,
	}
	return b.Hash, nil
}

func (f *fakeLedger) AccountsBalances(ctx context.Context, accounts []string) (map[string]model.AccountBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["accounts_balances"]++

	out := make(map[string]model.AccountBalance, len(accounts))
	for _, addr := range accounts {
		balance := "0"
		if info, ok := f.accounts[addr]; ok {
			balance = info.Balance
		}
		receivable := new(uint256.Int)
		for _, r := range f.receivable[addr] {
			amount, err := common.ParseRaw(r.Amount)
			if err != nil {
				return nil, err
			}
			receivable.Add(receivable, amount)
		}
		out[addr] = model.AccountBalance{Address: addr, Balance: balance, Receivable: receivable.Dec()}
	}
	return out, nil
}

func (f *fakeLedger) AccountHistory(ctx context.Context, account string, count int) ([]client.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["account_history"]++

	entries := f.history[account]
	if len(entries) > count {
		entries = entries[:count]
	}
	return entries, nil
}
