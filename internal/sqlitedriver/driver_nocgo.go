//go:build !cgo

package sqlitedriver

import (
	"database/sql"

	"modernc.org/sqlite"
)

func init() {
	sql.Register("sqlite3", &sqlite.Driver{})
}

// EncryptionSupported reports whether the registered driver can open
// encrypted databases. False for pure-Go builds.
const EncryptionSupported = false
