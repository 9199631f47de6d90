package model

// AccountBalance is one account's balance in both units
type AccountBalance struct {
	Address        string `json:"address"`
	Balance        string `json:"balance"`    // raw
	Receivable     string `json:"receivable"` // raw
	BalanceNano    string `json:"balance_nano"`
	ReceivableNano string `json:"receivable_nano"`
}

// BalanceResponse represents response for GET /nano/balance
type BalanceResponse struct {
	Accounts  []AccountBalance `json:"accounts"`
	TotalNano string           `json:"total_nano"`
	Currency  string           `json:"currency,omitempty"`
	Rate      string           `json:"rate,omitempty"`
	Fiat      string           `json:"total_in_fiat,omitempty"`
}

// ConvertResponse represents response for GET /nano/convert
type ConvertResponse struct {
	Amount string `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
	Result string `json:"result"`
}

// QRResponse represents response for GET /nano/qr
type QRResponse struct {
	URI string `json:"uri"`
	QR  string `json:"qr"` // base64 PNG
}

// AccountInfoResponse is the chain state of one account. Unconfirmed is set
// when blocks published by this wallet are not reported by the node yet.
type AccountInfoResponse struct {
	Address        string `json:"address"`
	Frontier       string `json:"frontier,omitempty"`
	Balance        string `json:"balance"` // raw
	BalanceNano    string `json:"balance_nano"`
	Representative string `json:"representative,omitempty"`
	Opened         bool   `json:"opened"`
	Unconfirmed    bool   `json:"unconfirmed"`
}
