package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

type criterionKind int

const (
	criterionNone criterionKind = iota
	criterionIndex
	criterionAddress
	criterionMetadata
)

// Criterion selects an account. Build one with ByIndex, ByAddress or
// ByMetadata; the zero value matches nothing.
type Criterion struct {
	kind     criterionKind
	index    uint32
	address  string
	metadata map[string]any
}

// ByIndex matches the account derived at index
func ByIndex(index uint32) Criterion {
	return Criterion{kind: criterionIndex, index: index}
}

// ByAddress matches an account address (nano_ or xrb_)
func ByAddress(address string) Criterion {
	return Criterion{kind: criterionAddress, address: address}
}

// ByMetadata matches the first account whose metadata holds every given
// key with a deep-equal value
func ByMetadata(metadata map[string]any) Criterion {
	return Criterion{kind: criterionMetadata, metadata: metadata}
}

// IsZero reports whether c selects nothing
func (c Criterion) IsZero() bool {
	switch c.kind {
	case criterionIndex:
		return false
	case criterionAddress:
		return c.address == ""
	case criterionMetadata:
		return len(c.metadata) == 0
	}
	return true
}

func (c Criterion) String() string {
	switch c.kind {
	case criterionIndex:
		return fmt.Sprintf("index %d", c.index)
	case criterionAddress:
		return "address " + c.address
	case criterionMetadata:
		return "metadata"
	}
	return "none"
}

// AddAccount derives the account after the highest existing index and
// appends it to w
func AddAccount(w *model.Wallet, metadata map[string]any) (model.Account, error) {
	normalized, err := normalizeMetadata(metadata)
	if err != nil {
		return model.Account{}, err
	}

	if len(normalized) > 0 {
		for _, acc := range w.Accounts {
			existing, err := normalizeMetadata(acc.Metadata)
			if err != nil {
				return model.Account{}, err
			}
			if reflect.DeepEqual(existing, normalized) {
				return model.Account{}, model.ErrDuplicateMetadata
			}
		}
	}

	var next uint32
	for i, acc := range w.Accounts {
		if i == 0 || acc.Index >= next {
			next = acc.Index + 1
		}
	}

	acc, err := deriveAccount(w.Seed, next)
	if err != nil {
		return model.Account{}, err
	}
	acc.Metadata = normalized

	w.Accounts = append(w.Accounts, acc)
	return acc, nil
}

// FindAccount returns the first account matching c, or model.ErrAccountNotFound
func FindAccount(w *model.Wallet, c Criterion) (model.Account, error) {
	if c.IsZero() {
		return model.Account{}, model.ErrAccountNotFound
	}

	var (
		address string
		want    map[string]any
		err     error
	)
	switch c.kind {
	case criterionAddress:
		// An undecodable address cannot match a derived account.
		if address, err = keys.NormalizeAddress(c.address); err != nil {
			return model.Account{}, model.ErrAccountNotFound
		}
	case criterionMetadata:
		if want, err = normalizeMetadata(c.metadata); err != nil {
			return model.Account{}, err
		}
	}

	for _, acc := range w.Accounts {
		switch c.kind {
		case criterionIndex:
			if acc.Index == c.index {
				return acc, nil
			}
		case criterionAddress:
			if acc.Address == address || acc.Address == c.address {
				return acc, nil
			}
		case criterionMetadata:
			have, err := normalizeMetadata(acc.Metadata)
			if err != nil {
				return model.Account{}, err
			}
			if metadataContains(have, want) {
				return acc, nil
			}
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

// ListAccounts returns a copy of the accounts in derivation order
func ListAccounts(w *model.Wallet) []model.Account {
	out := make([]model.Account, len(w.Accounts))
	copy(out, w.Accounts)
	return out
}

func metadataContains(have, want map[string]any) bool {
	for k, v := range want {
		hv, ok := have[k]
		if !ok || !reflect.DeepEqual(hv, v) {
			return false
		}
	}
	return true
}

// normalizeMetadata round-trips metadata through JSON so values compare the
// same way before and after a save (numbers become float64, and so on)
func normalizeMetadata(metadata map[string]any) (map[string]any, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return out, nil
}

func deriveAccount(seed string, index uint32) (model.Account, error) {
	kp, err := keys.Derive(seed, index)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to derive account %d: %w", index, err)
	}
	defer kp.Clear()

	return model.Account{
		Index:      index,
		Address:    kp.Address,
		PublicKey:  hex.EncodeToString(kp.PublicKey),
		PrivateKey: hex.EncodeToString(kp.PrivateKey),
	}, nil
}
