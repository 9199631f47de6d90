package keys

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// LegacySeedSize is a raw Nano seed, derived with blake2b
	LegacySeedSize = 32
	// BIP39SeedSize is a BIP39 seed, derived with SLIP-0010
	BIP39SeedSize = 64

	hardenedOffset = 0x80000000
	purpose        = 44
	coinType       = 165 // Nano, SLIP-0044
)

var slip10Curve = []byte("ed25519 seed")

// KeyPair is an account key pair with its address
type KeyPair struct {
	PrivateKey []byte
	PublicKey  []byte
	Address    string
}

// Derive derives the key pair at index from a hex seed.
// 64-byte seeds use the SLIP-0010 path 44'/165'/index', 32-byte seeds use
// the Nano legacy scheme blake2b(seed || index).
func Derive(seedHex string, index uint32) (*KeyPair, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	defer clear(seed)

	var private []byte
	switch len(seed) {
	case BIP39SeedSize:
		private = deriveSLIP10(seed, []uint32{purpose, coinType, index})
	case LegacySeedSize:
		private = deriveLegacy(seed, index)
	default:
		return nil, fmt.Errorf("seed must be %d or %d bytes, got %d", LegacySeedSize, BIP39SeedSize, len(seed))
	}

	public := PublicKey(private)
	return &KeyPair{
		PrivateKey: private,
		PublicKey:  public,
		Address:    EncodeAddress(public),
	}, nil
}

// Clear wipes the private key
func (k *KeyPair) Clear() {
	clear(k.PrivateKey)
}

// deriveSLIP10 walks a fully hardened ed25519 path
func deriveSLIP10(seed []byte, path []uint32) []byte {
	mac := hmac.New(sha512.New, slip10Curve)
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, index := range path {
		data := make([]byte, 0, 1+32+4)
		data = append(data, 0x00)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, index|hardenedOffset)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write(data)
		clear(sum)
		sum = mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
		clear(data)
	}

	private := make([]byte, 32)
	copy(private, key)
	clear(sum)
	return private
}

func deriveLegacy(seed []byte, index uint32) []byte {
	h, _ := blake2b.New256(nil)
	h.Write(seed)
	h.Write(binary.BigEndian.AppendUint32(nil, index))
	return h.Sum(nil)
}

// FromPrivateKey rebuilds a key pair from a stored hex private key
func FromPrivateKey(privateHex string) (*KeyPair, error) {
	private, err := hex.DecodeString(privateHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(private) != PrivateKeySize {
		clear(private)
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(private))
	}

	public := PublicKey(private)
	return &KeyPair{
		PrivateKey: private,
		PublicKey:  public,
		Address:    EncodeAddress(public),
	}, nil
}
