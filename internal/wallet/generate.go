package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// Generate creates a wallet from a fresh mnemonic with account 0 derived
func Generate() (*model.Wallet, error) {
	mnemonic, seed, err := keys.GenerateSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate seed: %w", err)
	}
	return fromSeed(mnemonic, seed)
}

// FromMnemonic recovers a wallet from a BIP39 phrase
func FromMnemonic(mnemonic string) (*model.Wallet, error) {
	mnemonic = keys.NormalizeMnemonic(mnemonic)
	seed, err := keys.RecoverSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}
	return fromSeed(mnemonic, seed)
}

// FromSeed builds a wallet from a hex seed (64-byte BIP39 or 32-byte legacy)
func FromSeed(seed string) (*model.Wallet, error) {
	return fromSeed("", seed)
}

func fromSeed(mnemonic, seed string) (*model.Wallet, error) {
	if err := validateSeed(seed); err != nil {
		return nil, err
	}

	acc, err := deriveAccount(seed, 0)
	if err != nil {
		return nil, err
	}

	return &model.Wallet{
		Mnemonic: mnemonic,
		Seed:     seed,
		Accounts: []model.Account{acc},
	}, nil
}

func validateSeed(seed string) error {
	raw, err := hex.DecodeString(seed)
	if err != nil {
		return fmt.Errorf("seed is not hex: %w", err)
	}
	defer clear(raw)

	if len(raw) != keys.BIP39SeedSize && len(raw) != keys.LegacySeedSize {
		return fmt.Errorf("seed must be %d or %d bytes, got %d",
			keys.LegacySeedSize, keys.BIP39SeedSize, len(raw))
	}
	return nil
}
