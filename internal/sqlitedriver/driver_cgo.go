//go:build cgo

package sqlitedriver

import (
	_ "github.com/mutecomm/go-sqlcipher/v4" // registers "sqlite3" with SQLCipher support
)

// EncryptionSupported reports whether the registered driver can open
// encrypted databases. True for CGO builds.
const EncryptionSupported = true
