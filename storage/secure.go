package storage

import (
	"context"
	"fmt"

	"github.com/CreativeUnicorns/themeprefs"
)

// SecureStore encrypts values before handing them to another Store.
// Each value is bound to its key, so ciphertext copied between keys fails to decrypt.
type SecureStore struct {
	inner themeprefs.Store
	enc   themeprefs.Encrypter
}

// NewSecureStore wraps inner with enc.
func NewSecureStore(inner themeprefs.Store, enc themeprefs.Encrypter) (*SecureStore, error) {
	if inner == nil || enc == nil {
		return nil, fmt.Errorf("%w: secure store needs a store and an encrypter", themeprefs.ErrInvalidInput)
	}
	return &SecureStore{inner: inner, enc: enc}, nil
}

// Get decrypts the value stored under key. Values that fail to decrypt are
// reported as themeprefs.ErrSerialization.
func (s *SecureStore) Get(ctx context.Context, key string) (string, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}

	value, err := s.enc.Decrypt(sealed, key)
	if err != nil {
		return "", fmt.Errorf("%w: secure: failed to decrypt key '%s': %v", themeprefs.ErrSerialization, key, err)
	}
	return value, nil
}

// Set encrypts value and stores it under key.
func (s *SecureStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.enc.Encrypt(value, key)
	if err != nil {
		return fmt.Errorf("%w: secure: failed to encrypt key '%s': %v", themeprefs.ErrSerialization, key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

// Close closes the wrapped store.
func (s *SecureStore) Close() error {
	return s.inner.Close()
}
