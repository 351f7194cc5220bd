package store

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"

	"github.com/krema-build/krema/internal/errors"
)

// relationalStore is the optional queryable backend (github.com/lib/pq)
// for plugins that need more than opaque JSON blobs, such as expiry
// queries a flat file can't do efficiently. It implements the same Store interface as fileStore so
// handlers never know which backend they're talking to.
type relationalStore struct {
	db    *sql.DB
	table string
}

// NewRelational opens a Postgres connection via dsn and ensures the
// backing table exists, namespaced by table so multiple stores can share
// one database.
func NewRelational(dsn, table string) (Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.IO, "open postgres connection", err)
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(errors.TransientSystem, "ping postgres", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS ` + table + ` (key TEXT PRIMARY KEY, value JSONB NOT NULL)`
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(errors.IO, "create store table", err)
	}
	return &relationalStore{db: db, table: table}, nil
}

func (s *relationalStore) Get(ctx context.Context, key string) (any, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM "+s.table+" WHERE key = $1", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.TransientSystem, "query store entry", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, errors.Wrap(errors.SerializationError, "decode entry", err)
	}
	return value, true, nil
}

func (s *relationalStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(errors.SerializationError, "encode entry", err)
	}
	query := "INSERT INTO " + s.table + " (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value"
	if _, err := s.db.ExecContext(ctx, query, key, raw); err != nil {
		return errors.Wrap(errors.TransientSystem, "upsert store entry", err)
	}
	return nil
}

func (s *relationalStore) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *relationalStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+s.table+" WHERE key = $1", key); err != nil {
		return errors.Wrap(errors.TransientSystem, "delete store entry", err)
	}
	return nil
}

func (s *relationalStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM "+s.table)
	if err != nil {
		return nil, errors.Wrap(errors.TransientSystem, "list store keys", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(errors.TransientSystem, "scan store key", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

var _ Store = (*relationalStore)(nil)
