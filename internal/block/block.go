package block

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"
)

const (
	blockTypeState = "state"

	hashSize    = 32
	balanceSize = 16
	workSize    = 8
)

// ZeroHash is the previous field of an open block and the link of a change block
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// statePreamble prefixes every state block hash (32 bytes, value 6)
var statePreamble = func() []byte {
	p := make([]byte, 32)
	p[31] = 6
	return p
}()

// Kind is the operation a block performs
type Kind int

const (
	KindSend Kind = iota
	KindReceive
	KindChange
)

func (k Kind) String() string {
	switch k {
	case KindSend:
		return "send"
	case KindReceive:
		return "receive"
	case KindChange:
		return "change"
	}
	return "unknown"
}

// Params holds the operation-specific inputs of Build
type Params struct {
	Kind Kind
	// Amount in raw, for send and receive
	Amount *uint256.Int
	// Destination address, for send
	Destination string
	// Source is the hash of the send block being pocketed, for receive
	Source string
	// Representative is the new representative for change, and the
	// representative of an open block
	Representative string
}

// Build constructs and signs a state block on top of snapshot.
// It is pure: nothing is fetched and work is left empty, see SetWork.
func Build(snapshot model.AccountInfo, signer *keys.KeyPair, params Params) (*model.StateBlock, error) {
	balance, err := common.ParseRaw(snapshot.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot balance: %w", err)
	}

	b := &model.StateBlock{
		Type:           blockTypeState,
		Account:        signer.Address,
		Previous:       ZeroHash,
		Representative: snapshot.Representative,
		Link:           ZeroHash,
	}
	if snapshot.Opened {
		if b.Previous, err = normalizeHash(snapshot.Frontier); err != nil {
			return nil, fmt.Errorf("invalid snapshot frontier: %w", err)
		}
	}

	switch params.Kind {
	case KindSend:
		if err := checkAmount(params.Amount); err != nil {
			return nil, err
		}
		if !snapshot.Opened || balance.Lt(params.Amount) {
			return nil, fmt.Errorf("%w: have %s raw, need %s raw",
				model.ErrInsufficientBalance, balance.Dec(), params.Amount.Dec())
		}
		destination, err := keys.DecodeAddress(params.Destination)
		if err != nil {
			return nil, err
		}
		balance = new(uint256.Int).Sub(balance, params.Amount)
		b.Link = strings.ToUpper(hex.EncodeToString(destination))
		b.LinkAsAccount = keys.EncodeAddress(destination)
		b.Subtype = model.SubtypeSend

	case KindReceive:
		if err := checkAmount(params.Amount); err != nil {
			return nil, err
		}
		source, err := normalizeHash(params.Source)
		if err != nil {
			return nil, fmt.Errorf("invalid source hash: %w", err)
		}
		sum, overflow := new(uint256.Int).AddOverflow(balance, params.Amount)
		if overflow || sum.BitLen() > balanceSize*8 {
			return nil, fmt.Errorf("%w: balance overflow", model.ErrInvalidAmount)
		}
		balance = sum
		b.Link = source
		b.Subtype = model.SubtypeReceive
		if !snapshot.Opened {
			b.Subtype = model.SubtypeOpen
			if params.Representative != "" {
				b.Representative = params.Representative
			}
		}

	case KindChange:
		if !snapshot.Opened {
			return nil, model.ErrUnopenedAccount
		}
		b.Representative = params.Representative
		b.Subtype = model.SubtypeChange

	default:
		return nil, fmt.Errorf("unknown block kind %d", params.Kind)
	}

	if b.Representative, err = keys.NormalizeAddress(b.Representative); err != nil {
		return nil, fmt.Errorf("invalid representative: %w", err)
	}
	b.Balance = balance.Dec()

	hash, err := Hash(b)
	if err != nil {
		return nil, err
	}
	b.Hash = strings.ToUpper(hex.EncodeToString(hash))
	b.Signature = strings.ToUpper(hex.EncodeToString(keys.Sign(signer.PrivateKey, hash)))

	return b, nil
}

// Hash computes blake2b-256(preamble || account || previous || representative || balance || link)
func Hash(b *model.StateBlock) ([]byte, error) {
	account, err := keys.DecodeAddress(b.Account)
	if err != nil {
		return nil, fmt.Errorf("invalid account: %w", err)
	}
	previous, err := decodeHash(b.Previous)
	if err != nil {
		return nil, fmt.Errorf("invalid previous: %w", err)
	}
	representative, err := keys.DecodeAddress(b.Representative)
	if err != nil {
		return nil, fmt.Errorf("invalid representative: %w", err)
	}
	balance, err := common.ParseRaw(b.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}
	link, err := decodeHash(b.Link)
	if err != nil {
		return nil, fmt.Errorf("invalid link: %w", err)
	}

	balanceBytes := balance.Bytes32()

	h, _ := blake2b.New256(nil)
	h.Write(statePreamble)
	h.Write(account)
	h.Write(previous)
	h.Write(representative)
	h.Write(balanceBytes[32-balanceSize:])
	h.Write(link)
	return h.Sum(nil), nil
}

// Verify checks the block signature against its account key
func Verify(b *model.StateBlock) error {
	hash, err := Hash(b)
	if err != nil {
		return err
	}
	account, err := keys.DecodeAddress(b.Account)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(b.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	if !keys.Verify(account, hash, sig) {
		return fmt.Errorf("signature does not match account %s", b.Account)
	}
	return nil
}

// WorkRoot returns the hash proof of work is computed on: the previous block,
// or the account public key for an open block
func WorkRoot(b *model.StateBlock) (string, error) {
	if b.Previous != ZeroHash && b.Previous != "" {
		return normalizeHash(b.Previous)
	}
	account, err := keys.DecodeAddress(b.Account)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(account)), nil
}

// SetWork attaches a proof of work value. Work is not covered by the signature.
func SetWork(b *model.StateBlock, work string) error {
	raw, err := hex.DecodeString(work)
	if err != nil || len(raw) != workSize {
		return fmt.Errorf("invalid work %q", work)
	}
	b.Work = strings.ToLower(work)
	return nil
}

// Amount returns the balance delta of b relative to the previous balance
func Amount(b *model.StateBlock, previousBalance string) (*uint256.Int, error) {
	before, err := common.ParseRaw(previousBalance)
	if err != nil {
		return nil, err
	}
	after, err := common.ParseRaw(b.Balance)
	if err != nil {
		return nil, err
	}
	if after.Lt(before) {
		return new(uint256.Int).Sub(before, after), nil
	}
	return new(uint256.Int).Sub(after, before), nil
}

func checkAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("%w: amount must be greater than zero", model.ErrInvalidAmount)
	}
	if amount.BitLen() > balanceSize*8 {
		return fmt.Errorf("%w: amount exceeds 128 bits", model.ErrInvalidAmount)
	}
	return nil
}

// normalizeHash validates a 32-byte hex hash and returns it uppercase
func normalizeHash(s string) (string, error) {
	if _, err := decodeHash(s); err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}

func decodeHash(s string) ([]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != hashSize {
		return nil, fmt.Errorf("want %d bytes, got %d", hashSize, len(raw))
	}
	return raw, nil
}
