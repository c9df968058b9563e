// Package storage provides key-value Store implementations for theme preferences.
package storage

import (
	"github.com/CreativeUnicorns/themeprefs"
)

var (
	_ themeprefs.Store = (*MemoryStore)(nil)
	_ themeprefs.Store = (*SQLiteStorage)(nil)
	_ themeprefs.Store = (*PostgresStorage)(nil)
	_ themeprefs.Store = (*RedisStorage)(nil)
	_ themeprefs.Store = (*SecureStore)(nil)
)
