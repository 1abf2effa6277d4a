// Package store persists JSON records as flat files, one file per
// (collection, key) pair under a base directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrExists     = errors.New("record already exists")
	ErrNotFound   = errors.New("record not found")
	ErrInvalidKey = errors.New("invalid record key")
)

// Store reads and writes one JSON document per record at
// <baseDir>/<collection>/<key>.json. Operations on the same record are
// serialized by an in-process lock; across records and across processes
// the outcome of concurrent writes is last-write-wins.
type Store struct {
	baseDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// Create persists a new record. It fails with ErrExists if a record is
// already stored at (collection, key); it never overwrites.
func (s *Store) Create(collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	l := s.lock(collection, key)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(s.path(collection, key)); err == nil {
		return ErrExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking record: %w", err)
	}

	return s.write(collection, key, doc)
}

// Read decodes the record at (collection, key) into out. A missing file
// and malformed stored content both report ErrNotFound.
func (s *Store) Read(collection, key string, out any) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	l := s.lock(collection, key)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(s.path(collection, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("reading record: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// Malformed content is treated as absent, not as a crash.
		return ErrNotFound
	}
	return nil
}

// Update replaces the entire contents of an existing record. It fails
// with ErrNotFound if the record does not exist; it is a full
// replacement, never a merge.
func (s *Store) Update(collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	l := s.lock(collection, key)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(s.path(collection, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("checking record: %w", err)
	}

	return s.write(collection, key, doc)
}

// Delete removes the record at (collection, key), failing with
// ErrNotFound if it is absent.
func (s *Store) Delete(collection, key string) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	l := s.lock(collection, key)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(s.path(collection, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// List enumerates the keys of every record in a collection. A collection
// that has never been written to lists as empty.
func (s *Store) List(collection string) ([]string, error) {
	if err := validate(collection, "-"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.baseDir, collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing collection: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

// write serializes doc to a temp file and renames it into place, so a
// concurrent reader sees either the old document or the new one, never a
// partial write.
func (s *Store) write(collection, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	dir := filepath.Join(s.baseDir, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating collection dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing record: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(collection, key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalizing record: %w", err)
	}
	return nil
}

func (s *Store) path(collection, key string) string {
	return filepath.Join(s.baseDir, collection, key+".json")
}

func (s *Store) lock(collection, key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := collection + "/" + key
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// validate rejects names that would escape the collection directory.
func validate(collection, key string) error {
	for _, name := range []string{collection, key} {
		if name == "" || name == "." || name == ".." ||
			strings.ContainsAny(name, `/\`) {
			return ErrInvalidKey
		}
	}
	return nil
}
