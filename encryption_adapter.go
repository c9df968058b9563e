// Package themeprefs provides an adapter for the encryption package.
package themeprefs

import (
	"github.com/CreativeUnicorns/themeprefs/encryption"
)

// EncryptionAdapter adapts encryption.Cipher to the Encrypter interface.
type EncryptionAdapter struct {
	cipher *encryption.Cipher
}

// NewEncryptionAdapter creates an EncryptionAdapter with the key from the environment.
// It validates the key during initialization for fast-fail scenarios.
func NewEncryptionAdapter() (*EncryptionAdapter, error) {
	c, err := encryption.NewCipher()
	if err != nil {
		return nil, err
	}
	return &EncryptionAdapter{cipher: c}, nil
}

// NewEncryptionAdapterWithKey creates an EncryptionAdapter with the provided key material.
func NewEncryptionAdapterWithKey(key []byte) (*EncryptionAdapter, error) {
	c, err := encryption.NewCipherWithKey(key)
	if err != nil {
		return nil, err
	}
	return &EncryptionAdapter{cipher: c}, nil
}

// Encrypt encrypts plaintext bound to associated.
func (e *EncryptionAdapter) Encrypt(plaintext, associated string) (string, error) {
	return e.cipher.Encrypt(plaintext, associated)
}

// Decrypt decrypts a value produced by Encrypt with the same associated data.
func (e *EncryptionAdapter) Decrypt(ciphertext, associated string) (string, error) {
	return e.cipher.Decrypt(ciphertext, associated)
}
