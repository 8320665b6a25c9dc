package ps

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
)

// Transform is applied to the whole encoded database file on commit and
// reversed on load.
type Transform interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// AESCBC is AES-128 in CBC mode with PKCS#7 padding. The key and IV are
// fixed for the lifetime of the value, so equal plaintexts produce equal
// ciphertexts.
type AESCBC struct {
	block cipher.Block
	iv    []byte
}

func NewAESCBC(key, iv []byte) (*AESCBC, error) {
	if len(key) != aes.BlockSize {
		return nil, fmt.Errorf("aes key must be %d bytes, got %d", aes.BlockSize, len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("aes iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &AESCBC{block: block, iv: bytes.Clone(iv)}, nil
}

// NewAESCBCFromHex takes the key and IV as 32 hex digits each.
func NewAESCBCFromHex(key, iv string) (*AESCBC, error) {
	k, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid aes key: %w", err)
	}
	v, err := hex.DecodeString(iv)
	if err != nil {
		return nil, fmt.Errorf("invalid aes iv: %w", err)
	}
	return NewAESCBC(k, v)
}

func (c *AESCBC) Encrypt(plaintext []byte) ([]byte, error) {
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return out, nil
}

func (c *AESCBC) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of %d", ErrDecode, len(ciphertext), aes.BlockSize)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecode)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecode)
		}
	}
	return data[:len(data)-n], nil
}
