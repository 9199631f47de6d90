package keys

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/tyler-smith/go-bip39"
)

// entropyBits gives a 24 word mnemonic
const entropyBits = 256

// GenerateSeed creates a fresh 24 word mnemonic and its 64-byte BIP39 seed (hex)
func GenerateSeed() (mnemonic string, seed string, err error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err = bip39.NewMnemonic(entropy)
	if err != nil {
		return "", "", fmt.Errorf("failed to create mnemonic: %w", err)
	}

	seed, err = RecoverSeed(mnemonic, "")
	if err != nil {
		return "", "", err
	}
	return mnemonic, seed, nil
}

// RecoverSeed validates mnemonic and returns the BIP39 seed (hex) for it
func RecoverSeed(mnemonic, passphrase string) (string, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidMnemonic, err)
	}
	defer clear(seed)

	return hex.EncodeToString(seed), nil
}

// NormalizeMnemonic lowercases the phrase and collapses whitespace
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}
