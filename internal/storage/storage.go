package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nfrund/gridsky/internal/domain"
	"github.com/spf13/afero"
)

// AferoStore keeps JSON documents as files on an afero filesystem. Tests use
// afero.NewMemMapFs; the server roots an OS filesystem at DATA_DIR.
type AferoStore struct {
	mu sync.RWMutex
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewOSStore roots an AferoStore at dir on the local disk.
func NewOSStore(dir string) (*AferoStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// Write stores v as JSON under collection/key, replacing any previous
// document. The file is written to a temporary name and renamed into place.
func (s *AferoStore) Write(collection, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(collection, 0o700); err != nil {
		return err
	}
	path := documentPath(collection, key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return err
	}
	return s.fs.Rename(tmp, path)
}

// Read decodes the document at collection/key into v. It returns
// domain.ErrNotFound when no document exists.
func (s *AferoStore) Read(collection, key string, v any) error {
	s.mu.RLock()
	data, err := afero.ReadFile(s.fs, documentPath(collection, key))
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s/%s: %w", collection, key, domain.ErrNotFound)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, key, err)
	}
	return nil
}

// Delete removes the document at collection/key. Deleting a missing document
// is not an error.
func (s *AferoStore) Delete(collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(documentPath(collection, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var keyReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")

func documentPath(collection, key string) string {
	return filepath.Join(collection, keyReplacer.Replace(key)+".json")
}
