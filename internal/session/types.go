// Package session persists the bearer token that marks the client as logged in.
package session

import "errors"

// TokenKey is the fixed storage key the bearer token lives under.
const TokenKey = "usertoken"

// ErrUnknownDriver is returned by Open for an unsupported store driver.
var ErrUnknownDriver = errors.New("unknown store driver")

// Backend is a durable string key-value store.
// Get reports ok=false when the key is absent.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Open returns the Backend for driver ("sqlite", "bolt" or "memory").
// path is ignored by the memory driver.
func Open(driver, path string) (Backend, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLiteStore(path)
	case "bolt":
		return NewBoltStore(path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, ErrUnknownDriver
	}
}
