package model

// Block subtypes
const (
	SubtypeSend    = "send"
	SubtypeReceive = "receive"
	SubtypeOpen    = "open"
	SubtypeChange  = "change"
)

// StateBlock is a signed Nano state block in the node's json_block form
type StateBlock struct {
	Type           string `json:"type"`
	Account        string `json:"account"`
	Previous       string `json:"previous"`
	Representative string `json:"representative"`
	Balance        string `json:"balance"` // raw, decimal
	Link           string `json:"link"`
	LinkAsAccount  string `json:"link_as_account,omitempty"`
	Signature      string `json:"signature"`
	Work           string `json:"work"`

	// Computed locally, not part of the published block
	Subtype string `json:"-"`
	Hash    string `json:"-"`
}

// BlockResult is a published block as returned by the API
type BlockResult struct {
	Hash    string      `json:"hash"`
	Subtype string      `json:"subtype"`
	Amount  string      `json:"amount"` // NANO
	Block   *StateBlock `json:"block"`
}

// AccountInfo is a ledger snapshot of one account, as reported by the node
type AccountInfo struct {
	Frontier       string `json:"frontier"`
	Balance        string `json:"balance"`
	Representative string `json:"representative"`
	Opened         bool   `json:"opened"`
}

// Receivable is a send block waiting to be pocketed
type Receivable struct {
	Hash   string `json:"hash"`
	Amount string `json:"amount"` // raw
	Source string `json:"source,omitempty"`
}

// SignRequest describes a block to sign offline. TransactionHash makes it a
// receive (open when Frontier is empty), ToAddress alone a send, and neither
// a representative change.
type SignRequest struct {
	WalletBalanceRaw      string `json:"walletBalanceRaw"`
	FromAddress           string `json:"fromAddress,omitempty"`
	ToAddress             string `json:"toAddress,omitempty"`
	Address               string `json:"address,omitempty"`
	RepresentativeAddress string `json:"representativeAddress"`
	Frontier              string `json:"frontier,omitempty"`
	AmountRaw             string `json:"amountRaw,omitempty"`
	TransactionHash       string `json:"transactionHash,omitempty"`
	Work                  string `json:"work,omitempty"`
}
