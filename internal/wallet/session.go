package wallet

import (
	"fmt"
	"sync"

	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// Session is an unlocked wallet: decrypted accounts plus the password needed
// to write them back. It is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	path     string
	password []byte
	wallet   *model.Wallet
}

// Open loads the keystore at path (creating or migrating it as needed) and
// returns a session over it. The password is copied; the caller may zero
// its slice afterwards.
func Open(path string, password []byte) (*Session, *LoadResult, error) {
	w, result, err := Load(path, password)
	if err != nil {
		return nil, nil, err
	}
	return NewSession(path, w, password), result, nil
}

// NewSession wraps an already decrypted wallet
func NewSession(path string, w *model.Wallet, password []byte) *Session {
	pw := make([]byte, len(password))
	copy(pw, password)

	return &Session{
		path:     path,
		password: pw,
		wallet:   w,
	}
}

// Path returns the keystore file path
func (s *Session) Path() string {
	return s.path
}

// Accounts lists accounts in derivation order
func (s *Session) Accounts() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ListAccounts(s.wallet)
}

// FindAccount looks an account up by criterion
func (s *Session) FindAccount(c Criterion) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return FindAccount(s.wallet, c)
}

// AddAccount derives the next account. The keystore is not written; call Save.
func (s *Session) AddAccount(metadata map[string]any) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := AddAccount(s.wallet, metadata)
	if err != nil {
		return model.Account{}, err
	}

	log.Infof("Added account %d: %v", acc.Index, acc.Address)
	return acc, nil
}

// ResolveSource picks the account to spend from: the given address, or the
// only account when address is empty
func (s *Session) ResolveSource(address string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if address != "" {
		return FindAccount(s.wallet, ByAddress(address))
	}
	if len(s.wallet.Accounts) != 1 {
		return model.Account{}, model.ErrAmbiguousSource
	}
	return s.wallet.Accounts[0], nil
}

// KeyPair returns the signing keys of acc. Call Clear on the result when done.
func (s *Session) KeyPair(acc model.Account) (*keys.KeyPair, error) {
	kp, err := keys.FromPrivateKey(acc.PrivateKey)
	if err != nil {
		return nil, err
	}
	if kp.Address != acc.Address {
		kp.Clear()
		return nil, fmt.Errorf("private key does not match address %s", acc.Address)
	}
	return kp, nil
}

// Save writes the wallet to the keystore file
func (s *Session) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.password == nil {
		return fmt.Errorf("session is closed")
	}
	return Save(s.path, s.wallet, s.password)
}

// Close wipes the cached password. The session can still be read but not saved.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.password)
	s.password = nil
}
