package model

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/common"
)

// Error kinds returned by the wallet engine. Callers check them with errors.Is.
var (
	ErrInvalidAmount       = common.ErrInvalidAmount
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidMnemonic     = errors.New("invalid mnemonic")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrCorruptKeystore     = errors.New("corrupt keystore")
	ErrDuplicateMetadata   = errors.New("account with the same metadata already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAmbiguousSource     = errors.New("source account must be set when wallet has more than one account")
	ErrNetworkFailure      = errors.New("network failure")
	ErrLedgerMismatch      = errors.New("node frontier does not match tracked chain")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrUnopenedAccount     = errors.New("account has no blocks on the ledger yet")
)

// Stage is a step of the per-block pipeline.
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageBuilding   Stage = "building"
	StageWorking    Stage = "working"
	StagePublishing Stage = "publishing"
	StageCommitted  Stage = "committed"
)

// PartialOperationFailure is returned when a multi-block operation stops
// after it started talking to the node. Committed holds the blocks that were
// published before the failing step, in order.
type PartialOperationFailure struct {
	Committed []*StateBlock
	// Index is the zero-based position of the failed step in the operation.
	Index int
	// Target is the destination address for a send, the receivable hash
	// for a receive, or the new representative for a change.
	Target string
	Stage  Stage
	// Pending is the block that was built but not published, if any.
	Pending *StateBlock
	Err     error
}

func (e *PartialOperationFailure) Error() string {
	return fmt.Sprintf("step %d (%s) failed while %s, %d block(s) committed: %v",
		e.Index+1, e.Target, e.Stage, len(e.Committed), e.Err)
}

func (e *PartialOperationFailure) Unwrap() error {
	return e.Err
}
