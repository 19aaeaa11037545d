package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists entries as one JSON file per key inside a directory.
// It is the on-device storage backend: a feed cached in one run renders
// instantly in the next.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

const fileExt = ".json"

// fileName maps a cache key to a safe file name. Keys contain ':' which is
// not portable across filesystems, so the key is hex-encoded.
func (s *FileStore) fileName(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+fileExt)
}

// Get retrieves an entry from disk.
func (s *FileStore) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.fileName(key))
	if err != nil {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt file: treat as a miss, a later Set will overwrite it.
		return Entry{}, false
	}
	return entry, true
}

// Set writes an entry to disk. The write goes through a temp file and a
// rename so a crash mid-write never leaves a truncated entry behind.
func (s *FileStore) Set(key string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.fileName(key)
	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// Delete removes an entry from disk.
func (s *FileStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.fileName(key))
}

// Keys returns all keys currently on disk.
func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var keys []string
	for _, de := range names {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		keys = append(keys, string(raw))
	}
	return keys
}

// Dir returns the directory the store writes into.
func (s *FileStore) Dir() string {
	return s.dir
}

// Verify FileStore implements Store
var _ Store = (*FileStore)(nil)
