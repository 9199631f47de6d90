package keys

import (
	"bytes"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
)

const (
	PrivateKeySize = 32
	PublicKeySize  = 32
	SignatureSize  = 64
)

// Nano signs with Ed25519 where every SHA-512 is replaced by Blake2b-512.

// expand returns the clamped secret scalar and the nonce prefix of a private key
func expand(private []byte) (*edwards25519.Scalar, []byte) {
	h := blake2b.Sum512(private)
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		// SetBytesWithClamping only fails on wrong input length
		panic(err)
	}
	prefix := make([]byte, 32)
	copy(prefix, h[32:])
	clear(h[:])
	return s, prefix
}

func hashToScalar(parts ...[]byte) *edwards25519.Scalar {
	h, _ := blake2b.New512(nil)
	for _, p := range parts {
		h.Write(p)
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		panic(err)
	}
	return s
}

// PublicKey returns the public key of a 32-byte private key
func PublicKey(private []byte) []byte {
	s, prefix := expand(private)
	clear(prefix)
	return new(edwards25519.Point).ScalarBaseMult(s).Bytes()
}

// Sign signs msg with a 32-byte private key
func Sign(private, msg []byte) []byte {
	s, prefix := expand(private)
	defer clear(prefix)

	public := new(edwards25519.Point).ScalarBaseMult(s).Bytes()

	r := hashToScalar(prefix, msg)
	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	k := hashToScalar(R, public, msg)
	S := edwards25519.NewScalar().MultiplyAdd(k, s, r)

	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, R...)
	return append(sig, S.Bytes()...)
}

// Verify reports whether sig is a valid signature of msg by public
func Verify(public, msg, sig []byte) bool {
	if len(public) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}

	A, err := new(edwards25519.Point).SetBytes(public)
	if err != nil {
		return false
	}
	S, err := edwards25519.NewScalar().SetCanonicalBytes(sig[32:])
	if err != nil {
		return false
	}

	k := hashToScalar(sig[:32], public, msg)
	minusA := new(edwards25519.Point).Negate(A)
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, S)

	return bytes.Equal(sig[:32], R.Bytes())
}
