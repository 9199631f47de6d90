package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// decryptLegacy decrypts "hex(iv):hex(ciphertext)" written by the first
// releases: AES-256-CTR keyed with sha256(password), no salt.
func decryptLegacy(blob string, password []byte) ([]byte, error) {
	iv, ciphertext, ok := parseLegacy(blob)
	if !ok {
		return nil, model.ErrCorruptKeystore
	}

	key := sha256.Sum256(password)
	defer clear(key[:])

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}
