// validation.go
package themeprefs

import (
	"fmt"
	"strings"
)

var validModes = map[Mode]bool{
	ModeLight:  true,
	ModeDark:   true,
	ModeSystem: true,
}

var validSchemes = map[Scheme]bool{
	SchemeLight: true,
	SchemeDark:  true,
}

// Valid reports whether m is one of light, dark or system.
func (m Mode) Valid() bool {
	return validModes[m]
}

func (m Mode) String() string {
	return string(m)
}

// Valid reports whether s is light or dark.
func (s Scheme) Valid() bool {
	return validSchemes[s]
}

func (s Scheme) String() string {
	return string(s)
}

// ParseMode decodes a user-supplied mode. Surrounding whitespace and case are ignored.
func ParseMode(v string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(v)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, v)
	}
	return m, nil
}

// ParseScheme decodes a user-supplied scheme. Surrounding whitespace and case are ignored.
func ParseScheme(v string) (Scheme, error) {
	s := Scheme(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidScheme, v)
	}
	return s, nil
}

// decodeStoredMode accepts only the exact persisted spellings.
func decodeStoredMode(v string) (Mode, bool) {
	m := Mode(v)
	return m, m.Valid()
}
