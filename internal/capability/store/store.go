// Package store implements the persistent document key-value capability
// (spec §4.8/SPEC_FULL.md §2 row 8): a JSON-document store namespaced per
// application under the OS app-data directory, with an optional
// github.com/redis/go-redis/v9 write-through cache and an optional
// github.com/lib/pq relational backend for plugins that need queryable
// storage rather than opaque blobs.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/krema-build/krema/internal/errors"
)

// Store is the capability surface exposed to handlers: get/set/has/
// delete/keys over a flat namespace of JSON-valued entries.
type Store interface {
	Get(ctx context.Context, key string) (value any, ok bool, err error)
	Set(ctx context.Context, key string, value any) error
	Has(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Cache is the optional write-through layer (github.com/redis/go-redis/v9
// in production) consulted before falling through to the document store.
type Cache interface {
	Get(ctx context.Context, key string) (raw string, ok bool, err error)
	Set(ctx context.Context, key, raw string) error
	Delete(ctx context.Context, key string) error
}

// fileStore is the default document-store backend: one JSON file per
// application under the app data directory, guarded by an in-process
// mutex. A relational backend (relationalStore, github.com/lib/pq)
// implements the same interface and is constructed with NewRelational;
// the manifest has no setting that selects it.
type fileStore struct {
	mu    sync.Mutex
	path  string
	cache Cache // nil when no write-through cache is configured
}

// New constructs the default file-backed Store, namespaced under appName.
// If cache is non-nil, reads consult it first and writes populate it.
func New(appName string, cache Cache) (Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "krema", appName, "store.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.IO, "create store directory", err)
	}
	return &fileStore{path: path, cache: cache}, nil
}

func (s *fileStore) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.IO, "read store file", err)
	}
	doc := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, errors.Wrap(errors.SerializationError, "parse store file", err)
		}
	}
	return doc, nil
}

func (s *fileStore) save(doc map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.SerializationError, "encode store file", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errors.Wrap(errors.IO, "write store file", err)
	}
	return nil
}

func (s *fileStore) Get(ctx context.Context, key string) (any, bool, error) {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var value any
			if err := json.Unmarshal([]byte(raw), &value); err == nil {
				return value, true, nil
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, false, err
	}
	raw, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, errors.Wrap(errors.SerializationError, "decode entry", err)
	}
	return value, true, nil
}

func (s *fileStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(errors.SerializationError, "encode entry", err)
	}

	s.mu.Lock()
	doc, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	doc[key] = raw
	err = s.save(doc)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, string(raw))
	}
	return nil
}

func (s *fileStore) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	doc, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	delete(doc, key)
	err = s.save(doc)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, key)
	}
	return nil
}

func (s *fileStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	return keys, nil
}
