package dummystore

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/clinigoal/backoffice/core"
)

// Store is an in-memory core.KeyValueStore used in DEV mode and tests.
type Store struct {
	sync.RWMutex
	buckets map[string]json.RawMessage
}

var _ core.KeyValueStore = (*Store)(nil) // interface compliance check

func Open() *Store {
	return &Store{buckets: make(map[string]json.RawMessage)}
}

func (s *Store) Get(key string, v interface{}) error {
	s.RLock()
	raw, ok := s.buckets[key]
	s.RUnlock()
	if !ok {
		return core.ErrKeyNotFound
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "unmarshaling bucket %s", key)
	}
	return nil
}

func (s *Store) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshaling bucket %s", key)
	}
	s.Lock()
	s.buckets[key] = raw
	s.Unlock()
	return nil
}

func (s *Store) Delete(key string) error {
	s.Lock()
	delete(s.buckets, key)
	s.Unlock()
	return nil
}

// SetRaw stores raw bytes under key without validating them; it lets tests
// seed corrupt buckets.
func (s *Store) SetRaw(key string, raw []byte) {
	s.Lock()
	s.buckets[key] = raw
	s.Unlock()
}
