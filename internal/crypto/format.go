package crypto

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// Format is an on-disk keystore encoding
type Format int

// Formats are ordered: migration only ever moves to a higher value.
const (
	FormatUnknown Format = iota
	FormatLegacy         // hex(iv):hex(ciphertext), AES-256-CTR, key = sha256(password)
	FormatSalted         // AES-256:: + OpenSSL "Salted__" AES-256-CBC, EVP_BytesToKey(MD5)
	FormatTagged         // AES-256-GCM:: + JSON envelope, scrypt key
)

const (
	taggedMarker = "AES-256-GCM::"
	saltedMarker = "AES-256::"
	opensslMagic = "Salted__"

	legacyIVHexLen = 32
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatSalted:
		return "salted"
	case FormatTagged:
		return "tagged"
	}
	return "unknown"
}

// Detect classifies blob by structure only. Checks run in fixed order:
// tagged marker, salted marker, legacy shape.
func Detect(blob string) (Format, error) {
	blob = normalizeBlob(blob)

	switch {
	case strings.HasPrefix(blob, taggedMarker):
		return FormatTagged, nil

	case strings.HasPrefix(blob, saltedMarker):
		raw, err := base64.StdEncoding.DecodeString(blob[len(saltedMarker):])
		if err != nil || len(raw) < len(opensslMagic)+8 || !bytes.HasPrefix(raw, []byte(opensslMagic)) {
			return FormatUnknown, model.ErrCorruptKeystore
		}
		return FormatSalted, nil
	}

	if _, _, ok := parseLegacy(blob); ok {
		return FormatLegacy, nil
	}
	return FormatUnknown, model.ErrCorruptKeystore
}

// parseLegacy parses "hex(16-byte iv):hex(ciphertext)"
func parseLegacy(blob string) (iv, ciphertext []byte, ok bool) {
	ivHex, ctHex, found := strings.Cut(blob, ":")
	if !found || len(ivHex) != legacyIVHexLen || ctHex == "" || len(ctHex)%2 != 0 {
		return nil, nil, false
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, nil, false
	}
	ciphertext, err = hex.DecodeString(ctHex)
	if err != nil {
		return nil, nil, false
	}
	return iv, ciphertext, true
}

// normalizeBlob skips a UTF-8 BOM and surrounding whitespace
func normalizeBlob(blob string) string {
	blob = strings.TrimPrefix(blob, string(utf8BOM))
	return strings.TrimSpace(blob)
}
