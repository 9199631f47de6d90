package keys

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/model"

	"golang.org/x/crypto/blake2b"
)

const (
	AddressPrefix       = "nano_"
	legacyAddressPrefix = "xrb_"

	alphabet       = "13456789abcdefghijkmnopqrstuwxyz"
	keyChars       = 52 // 4 zero bits + 256 key bits
	checksumChars  = 8  // 40 bits
	keyPaddingBits = 4
	checksumSize   = 5
)

var reverseAlphabet = func() [256]int8 {
	var r [256]int8
	for i := range r {
		r[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		r[alphabet[i]] = int8(i)
	}
	return r
}()

// EncodeAddress encodes a 32-byte public key as a nano_ address
func EncodeAddress(public []byte) string {
	var sb strings.Builder
	sb.Grow(len(AddressPrefix) + keyChars + checksumChars)
	sb.WriteString(AddressPrefix)
	sb.WriteString(encode32(public, keyPaddingBits))
	sb.WriteString(encode32(checksum(public), 0))
	return sb.String()
}

// DecodeAddress returns the public key of a nano_ or xrb_ address
func DecodeAddress(address string) ([]byte, error) {
	var body string
	switch {
	case strings.HasPrefix(address, AddressPrefix):
		body = address[len(AddressPrefix):]
	case strings.HasPrefix(address, legacyAddressPrefix):
		body = address[len(legacyAddressPrefix):]
	default:
		return nil, fmt.Errorf("%w: unknown prefix", model.ErrInvalidAddress)
	}

	if len(body) != keyChars+checksumChars {
		return nil, fmt.Errorf("%w: wrong length", model.ErrInvalidAddress)
	}

	public, err := decode32(body[:keyChars], keyPaddingBits)
	if err != nil {
		return nil, err
	}
	sum, err := decode32(body[keyChars:], 0)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sum, checksum(public)) {
		return nil, fmt.Errorf("%w: checksum mismatch", model.ErrInvalidAddress)
	}
	return public, nil
}

// ValidateAddress checks prefix, alphabet and checksum
func ValidateAddress(address string) error {
	_, err := DecodeAddress(address)
	return err
}

// NormalizeAddress rewrites an xrb_ address with the nano_ prefix
func NormalizeAddress(address string) (string, error) {
	public, err := DecodeAddress(address)
	if err != nil {
		return "", err
	}
	return EncodeAddress(public), nil
}

// checksum is blake2b-40 of the key, byte-reversed
func checksum(public []byte) []byte {
	h, _ := blake2b.New(checksumSize, nil)
	h.Write(public)
	sum := h.Sum(nil)
	for i, j := 0, len(sum)-1; i < j; i, j = i+1, j-1 {
		sum[i], sum[j] = sum[j], sum[i]
	}
	return sum
}

// encode32 encodes data big-endian, 5 bits per character, after pad zero bits
func encode32(data []byte, pad int) string {
	total := len(data)*8 + pad
	out := make([]byte, total/5)
	for i := range out {
		var v byte
		for b := 0; b < 5; b++ {
			v = v<<1 | bitAt(data, i*5+b-pad)
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

func bitAt(data []byte, pos int) byte {
	if pos < 0 {
		return 0
	}
	return (data[pos/8] >> (7 - pos%8)) & 1
}

// decode32 reverses encode32; the pad bits must be zero
func decode32(s string, pad int) ([]byte, error) {
	total := len(s)*5 - pad
	if total%8 != 0 {
		return nil, fmt.Errorf("%w: wrong length", model.ErrInvalidAddress)
	}

	out := make([]byte, total/8)
	for i := 0; i < len(s); i++ {
		v := reverseAlphabet[s[i]]
		if v < 0 {
			return nil, fmt.Errorf("%w: invalid character %q", model.ErrInvalidAddress, s[i])
		}
		for b := 0; b < 5; b++ {
			bit := byte(v>>(4-b)) & 1
			pos := i*5 + b - pad
			if pos < 0 {
				if bit != 0 {
					return nil, fmt.Errorf("%w: non-zero padding", model.ErrInvalidAddress)
				}
				continue
			}
			out[pos/8] |= bit << (7 - pos%8)
		}
	}
	return out, nil
}
