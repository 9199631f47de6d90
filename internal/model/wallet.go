package model

// Wallet represents decrypted keystore contents
type Wallet struct {
	Mnemonic string    `json:"mnemonic"`
	Seed     string    `json:"seed"` // 128 hex (BIP39) or 64 hex (legacy Nano seed)
	Accounts []Account `json:"accounts"`
}

// Account is a derived key pair plus free-form metadata
type Account struct {
	Index      uint32         `json:"accountIndex"`
	Address    string         `json:"address"`
	PublicKey  string         `json:"public"`
	PrivateKey string         `json:"private"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// PublicAccount is an account without key material, safe to return from the API
type PublicAccount struct {
	Index     uint32         `json:"accountIndex"`
	Address   string         `json:"address"`
	PublicKey string         `json:"public"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Public strips the private key
func (a Account) Public() PublicAccount {
	return PublicAccount{
		Index:     a.Index,
		Address:   a.Address,
		PublicKey: a.PublicKey,
		Metadata:  a.Metadata,
	}
}

// AddAccountRequest represents request for POST /nano/accounts
type AddAccountRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// AccountsResponse represents response for GET /nano/accounts
type AccountsResponse struct {
	Accounts []PublicAccount `json:"accounts"`
}

// SaveResponse represents response for POST /nano/save
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
