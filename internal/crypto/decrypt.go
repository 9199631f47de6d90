package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// Decrypt detects the blob format and decrypts it.
// Wrong passwords give model.ErrInvalidPassword, malformed blobs give
// model.ErrCorruptKeystore.
func Decrypt(blob string, password []byte) ([]byte, Format, error) {
	blob = normalizeBlob(blob)

	format, err := Detect(blob)
	if err != nil {
		return nil, FormatUnknown, err
	}

	var plaintext []byte
	switch format {
	case FormatTagged:
		plaintext, err = decryptTagged(blob[len(taggedMarker):], password)
	case FormatSalted:
		plaintext, err = decryptSalted(blob[len(saltedMarker):], password)
	case FormatLegacy:
		plaintext, err = decryptLegacy(blob, password)
	}
	if err != nil {
		return nil, format, err
	}

	// Legacy and salted ciphertexts are not authenticated: a wrong key
	// yields garbage, which never parses as JSON.
	if format != FormatTagged && !json.Valid(plaintext) {
		clear(plaintext)
		return nil, format, model.ErrInvalidPassword
	}
	return plaintext, format, nil
}

// DecryptJSON decrypts blob and unmarshals the plaintext into v
func DecryptJSON(blob string, password []byte, v any) (Format, error) {
	plaintext, format, err := Decrypt(blob, password)
	if err != nil {
		return format, err
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	if err := json.Unmarshal(plaintext, v); err != nil {
		return format, fmt.Errorf("%w: failed to unmarshal data: %v", model.ErrCorruptKeystore, err)
	}
	return format, nil
}

func decryptTagged(body string, password []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal envelope: %v", model.ErrCorruptKeystore, err)
	}

	if env.KDF != kdfScrypt {
		return nil, fmt.Errorf("%w: unsupported kdf %q", model.ErrCorruptKeystore, env.KDF)
	}
	if env.N <= 1 || env.N&(env.N-1) != 0 || env.N > maxScryptN ||
		env.R <= 0 || env.R > maxScryptR || env.P <= 0 || env.P > maxScryptP {
		return nil, fmt.Errorf("%w: invalid scrypt parameters", model.ErrCorruptKeystore)
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode salt: %v", model.ErrCorruptKeystore, err)
	}

	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil || len(nonce) != nonceLen {
		return nil, fmt.Errorf("%w: failed to decode nonce", model.ErrCorruptKeystore)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.CipherText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode ciphertext: %v", model.ErrCorruptKeystore, err)
	}

	aesGCM, err := newGCM(password, salt, env.N, env.R, env.P)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, model.ErrInvalidPassword
	}
	return plaintext, nil
}
