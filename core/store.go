package core

import "errors"

// ErrKeyNotFound is returned by KeyValueStore.Get when a bucket does not exist.
// Callers treat an absent bucket the same as an empty one.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is any store that can persist JSON-serializable values by string key.
// One bucket (key) holds one JSON array/object.
type KeyValueStore interface {
	// Get reads the bucket stored under key and unmarshals it into v.
	Get(key string, v interface{}) error
	// Set marshals v and stores it under key, replacing any previous value.
	Set(key string, v interface{}) error
	// Delete removes the bucket stored under key. Deleting an absent key is not an error.
	Delete(key string) error
}
