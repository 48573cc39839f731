package sqlxstore

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/clinigoal/backoffice/core"
)

// Store is a Postgres-backed core.KeyValueStore: one row per bucket in the
// "buckets" table (see fs/migrations).
type Store struct {
	db *sqlx.DB
}

var _ core.KeyValueStore = (*Store)(nil) // interface compliance check

func New(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres")}
}

func (s *Store) Get(key string, v interface{}) error {
	var raw []byte
	if err := s.db.Get(&raw, `SELECT value FROM buckets WHERE key = $1`, key); err != nil {
		if err == sql.ErrNoRows {
			return core.ErrKeyNotFound
		}
		return errors.Wrapf(err, "reading bucket %s", key)
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
	_, err = s.db.Exec(
		`INSERT INTO buckets (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, raw,
	)
	return errors.Wrapf(err, "writing bucket %s", key)
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM buckets WHERE key = $1`, key)
	return errors.Wrapf(err, "deleting bucket %s", key)
}
