// Package themeprefs defines interfaces for storage, scheme detection, encryption and logging.
package themeprefs

import (
	"context"
)

// Store defines the methods required for a key-value persistence backend.
// Get returns ErrNotFound when the key is absent. Writes to one key must be atomic.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// SchemeProvider reports the OS color scheme and notifies subscribers when it changes.
// Subscribe returns a function that removes the subscription.
type SchemeProvider interface {
	Current() Scheme
	Subscribe(fn func(Scheme)) (unsubscribe func())
}

// Encrypter encrypts values before they reach a Store. The associated data
// (the storage key) is authenticated so a value cannot be moved to another key.
type Encrypter interface {
	Encrypt(plaintext, associated string) (string, error)
	Decrypt(ciphertext, associated string) (string, error)
}

// Logger defines the methods required for logging within the theme preference system.
// The args should be alternating key-value pairs, similar to slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
