// ABOUTME: Key-value contract the engine persists through
// ABOUTME: Backends: in-memory, SQLite, and Charm KV; all last-write-wins
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when a key has no value
var ErrKeyNotFound = errors.New("key not found")

// KV is the local key-value store supplied by the host application
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Delete removes a key; deleting a missing key is not an error
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
	Close() error
}

// Reader is the read half of KV
type Reader interface {
	Get(key string) ([]byte, error)
}

// Writer is the write half of KV
type Writer interface {
	Set(key string, value []byte) error
}

// Key prefixes for each persisted record type
const (
	ProgressPrefix  = "progress:"
	JournalPrefix   = "journal:"
	FavoritesPrefix = "favorites:"
	SessionPrefix   = "session:"
)

// ProgressKey is the key of a plan's progress record
func ProgressKey(planID string) string {
	return ProgressPrefix + planID
}

// JournalKey is the key of a journal entry
func JournalKey(entryID string) string {
	return JournalPrefix + entryID
}

// CatalogFavoritesKey holds the set of favorited catalog ids
func CatalogFavoritesKey() string {
	return FavoritesPrefix + "catalog"
}

// SessionKey is the key of a saved guidance transcript
func SessionKey(sessionID string) string {
	return SessionPrefix + sessionID
}

// SetJSON marshals value and stores it under key
func SetJSON(kv Writer, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return kv.Set(key, data)
}

// GetJSON loads key and unmarshals it into dest
func GetJSON(kv Reader, key string, dest interface{}) error {
	data, err := kv.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}
