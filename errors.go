// errors.go
package themeprefs

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input parameters")
	ErrInvalidMode        = errors.New("invalid theme mode")
	ErrInvalidScheme      = errors.New("invalid color scheme")
	ErrNotFound           = errors.New("preference not found")
	ErrStorageUnavailable = errors.New("storage backend unavailable")
	ErrSerialization      = errors.New("preference serialization failed")
	ErrClosed             = errors.New("resolver closed")
)
