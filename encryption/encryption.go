// Package encryption provides AES-256-GCM encryption for persisted theme preferences.
// It includes key validation and loading the key from the environment.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// MinKeyLength is the minimum length of the key material (32 bytes).
	MinKeyLength = 32
	// EnvKeyName is the environment variable holding the key material.
	EnvKeyName = "THEMEPREFS_ENCRYPTION_KEY"
)

var (
	// ErrInvalidKeyLength is returned when the key material is shorter than MinKeyLength.
	ErrInvalidKeyLength = errors.New("encryption key must be at least 32 bytes for AES-256")
	// ErrKeyNotFound is returned when the encryption key environment variable is not set.
	ErrKeyNotFound = errors.New("encryption key not found in environment variable " + EnvKeyName)
	// ErrEncryptionFailed is returned when encryption operation fails.
	ErrEncryptionFailed = errors.New("encryption operation failed")
	// ErrDecryptionFailed is returned when decryption operation fails.
	ErrDecryptionFailed = errors.New("decryption operation failed")
	// ErrInvalidCiphertext is returned when the ciphertext is malformed or too short.
	ErrInvalidCiphertext = errors.New("invalid ciphertext: too short or malformed")
)

// Cipher seals values with AES-256-GCM. The AES key is the SHA-256 digest of the
// key material, so any material of at least MinKeyLength bytes is accepted.
type Cipher struct {
	key []byte
}

// NewCipher creates a Cipher from the key material in EnvKeyName.
func NewCipher() (*Cipher, error) {
	keyStr := os.Getenv(EnvKeyName)
	if keyStr == "" {
		return nil, ErrKeyNotFound
	}
	return NewCipherWithKey([]byte(keyStr))
}

// NewCipherWithKey creates a Cipher from the provided key material.
func NewCipherWithKey(material []byte) (*Cipher, error) {
	if len(material) < MinKeyLength {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrInvalidKeyLength, len(material), MinKeyLength)
	}

	sum := sha256.Sum256(material)
	return &Cipher{key: sum[:]}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
// associated is authenticated but not encrypted; Decrypt must be given the same value.
func (c *Cipher) Encrypt(plaintext, associated string) (string, error) {
	aesGCM, err := c.gcm()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: failed to generate nonce: %v", ErrEncryptionFailed, err)
	}

	sealed := aesGCM.Seal(nonce, nonce, []byte(plaintext), []byte(associated))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt with the same associated data.
func (c *Cipher) Decrypt(encoded, associated string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrDecryptionFailed, err)
	}

	aesGCM, err := c.gcm()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(sealed) < nonceSize+aesGCM.Overhead() {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, []byte(associated))
	if err != nil {
		return "", fmt.Errorf("%w: failed to decrypt: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

func (c *Cipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

// ValidateKey checks the key material in EnvKeyName without building a Cipher.
// It is meant for early startup checks.
func ValidateKey() error {
	keyStr := os.Getenv(EnvKeyName)
	if keyStr == "" {
		return ErrKeyNotFound
	}

	if len(keyStr) < MinKeyLength {
		return fmt.Errorf("%w: got %d bytes, need at least %d", ErrInvalidKeyLength, len(keyStr), MinKeyLength)
	}

	return nil
}
