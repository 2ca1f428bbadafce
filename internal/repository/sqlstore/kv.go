package sqlstore

import (
	"database/sql"
	"errors"
)

// KVRepo implements repository.KVStore on the kv_store table
type KVRepo struct {
	db      *sql.DB
	dialect Dialect
}

// NewKVRepo creates a new key-value repository
func NewKVRepo(db *sql.DB, d Dialect) *KVRepo {
	return &KVRepo{db: db, dialect: d}
}

// Get returns the payload stored under key, or nil if there is none
func (r *KVRepo) Get(key string) ([]byte, error) {
	var payload string
	query := r.dialect.Rebind(`SELECT payload FROM kv_store WHERE store_key = ?`)
	err := r.db.QueryRow(query, key).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return []byte(payload), nil
}

// Set replaces the payload stored under key
func (r *KVRepo) Set(key string, value []byte) error {
	query := r.dialect.Rebind(`
		INSERT INTO kv_store (store_key, payload)
		VALUES (?, ?)
		ON CONFLICT (store_key)
		DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`)
	_, err := r.db.Exec(query, key, string(value))
	return err
}
