// Package storage persists small string values across process restarts. It
// plays the role browser local storage plays for a web client: the session
// keeps the logged-in user's identifier here and nothing else.
package storage

import (
	"fmt"
)

// UserIDKey holds the identifier of the logged-in user. Absence means
// logged out.
const UserIDKey = "user_id"

// Storage is a synchronous key/value store.
type Storage interface {
	// Get reports the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the backend named by driver rooted at path. The memory driver
// ignores path.
func Open(driver, path string) (Storage, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return NewFile(path)
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
