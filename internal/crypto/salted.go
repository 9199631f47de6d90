package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/nano-wallet/internal/model"
)

const (
	saltedSaltLen = 8
	aesKeyLen     = 32
)

// decryptSalted decrypts the OpenSSL-compatible body of an "AES-256::" blob:
// base64("Salted__" || salt8 || AES-256-CBC(PKCS#7)), key and IV from
// EVP_BytesToKey with one MD5 round.
func decryptSalted(body string, password []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode body: %v", model.ErrCorruptKeystore, err)
	}

	header := len(opensslMagic) + saltedSaltLen
	if len(raw) <= header || string(raw[:len(opensslMagic)]) != opensslMagic {
		return nil, model.ErrCorruptKeystore
	}
	salt, ciphertext := raw[len(opensslMagic):header], raw[header:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", model.ErrCorruptKeystore)
	}

	key, iv := evpBytesToKey(password, salt, aesKeyLen, aes.BlockSize)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		clear(plaintext)
		return nil, model.ErrInvalidPassword
	}
	return unpadded, nil
}

// evpBytesToKey is OpenSSL's EVP_BytesToKey with MD5 and a single iteration
func evpBytesToKey(password, salt []byte, keyLen, ivLen int) (key, iv []byte) {
	var (
		derived []byte
		prev    []byte
	)
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(password)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
