// Package themeprefs provides a concurrent-safe theme preference resolver.
//
// A Resolver holds the user-selected theme mode (light, dark or system), follows the
// scheme reported by the operating system, and derives the effective color scheme.
// The preference is persisted through a pluggable key-value Store (memory, SQLite,
// PostgreSQL, Redis, optionally encrypted). Storage failures never reach the caller:
// they are logged and the resolver degrades to the system default.
package themeprefs
