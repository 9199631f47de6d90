package model

// Destination is a send target. Empty Amount means the request's Amount.
type Destination struct {
	Address string `json:"address"`
	Amount  string `json:"amount,omitempty"`
}

// SendRequest represents request for POST /nano/send. Amounts are in NANO.
type SendRequest struct {
	From   string        `json:"from,omitempty"`
	To     []Destination `json:"to"`
	Amount string        `json:"amount"`
}

// SendResponse represents response for POST /nano/send
type SendResponse struct {
	Blocks []BlockResult `json:"blocks"`
}

// ReceiveRequest represents request for POST /nano/receive.
// Empty Account pockets receivable blocks for every account in the wallet.
type ReceiveRequest struct {
	Account string `json:"account,omitempty"`
}

// ReceiveResponse represents response for POST /nano/receive
type ReceiveResponse struct {
	Accounts map[string][]BlockResult `json:"accounts"`
	Errors   map[string]string        `json:"errors,omitempty"`
}

// ChangeRequest represents request for POST /nano/representative
type ChangeRequest struct {
	Account        string `json:"account,omitempty"`
	Representative string `json:"representative"`
}

// PowRequest represents request for POST /nano/pow
type PowRequest struct {
	Account  string `json:"account,omitempty"`
	Frontier string `json:"frontier,omitempty"`
}

// PowResponse represents response for POST /nano/pow
type PowResponse struct {
	Root string `json:"root"`
	Work string `json:"work"`
}

// ReceivableBlock is a receivable entry with its amount in NANO
type ReceivableBlock struct {
	Receivable
	AmountNano string `json:"amount_nano"`
}

// ReceivableResponse lists what an account can receive
type ReceivableResponse struct {
	Blocks []ReceivableBlock `json:"blocks"`
}
