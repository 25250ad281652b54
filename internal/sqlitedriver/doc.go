// Package sqlitedriver registers a SQLite database/sql driver under the
// name "sqlite3" so pkg/store opens the same driver name on every platform.
// CGO builds use go-sqlcipher, which supports SQLCipher encryption via
// PRAGMA key; pure-Go builds fall back to modernc.org/sqlite, which works
// everywhere but cannot encrypt.
//
// Import for side effects only:
//
//	import _ "github.com/teradata-labs/prism/internal/sqlitedriver"
package sqlitedriver
