package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the local keystore
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s) works on phones and desktops alike while
	// keeping brute force expensive. N=2^20 fails on mobile due to per-app
	// memory limits.
	DefaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12

	// maxScryptN, maxScryptR and maxScryptP bound the work factor accepted
	// from a keystore file. Memory is 128*N*R bytes.
	maxScryptN = 1 << 20
	maxScryptR = 32
	maxScryptP = 16

	kdfScrypt = "scrypt"
)

// scryptN is the work factor used for new blobs
var scryptN = DefaultScryptN

// envelope is the JSON body of a tagged blob
type envelope struct {
	KDF        string `json:"kdf"`
	N          int    `json:"n"`
	R          int    `json:"r"`
	P          int    `json:"p"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// SetScryptN sets the scrypt work factor for new blobs. n must be a power of two.
func SetScryptN(n int) error {
	if n <= 1 || n&(n-1) != 0 || n > maxScryptN {
		return fmt.Errorf("scrypt N must be a power of two between 2 and %d", maxScryptN)
	}
	scryptN = n
	return nil
}

// Encrypt encrypts plaintext into a tagged blob.
// password must be []byte for security (caller should zero it after use)
func Encrypt(plaintext, password []byte) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}

	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	n := scryptN
	aesGCM, err := newGCM(password, salt, n, scryptR, scryptP)
	if err != nil {
		return "", err
	}

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	env := envelope{
		KDF:        kdfScrypt,
		N:          n,
		R:          scryptR,
		P:          scryptP,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	body, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return taggedMarker + string(body), nil
}

// EncryptJSON marshals v and encrypts it into a tagged blob
func EncryptJSON(v any, password []byte) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	return Encrypt(plaintext, password)
}

// newGCM derives the scrypt key and wraps it in AES-256-GCM
func newGCM(password, salt []byte, n, r, p int) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, n, r, p, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
