package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileStore is a Store backed by a directory on the local filesystem. It
// preserves the fixed-path handoff contract of tool chains that expect the
// generated image as a real file: every Save also mirrors the bytes to a
// well-known path (dir/latest.png) that external viewers can watch.
//
// The directory layout and the latest-file path are part of the tool
// contract for any process reading the directory directly.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// LatestFileName is the well-known name the most recent artifact is
// mirrored to within the store directory.
const LatestFileName = "latest.png"

// NewFileStore creates (if necessary) and wraps the given directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory path.
func (s *FileStore) Dir() string { return s.dir }

// Save writes the artifact under name and mirrors it to the latest path.
func (s *FileStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, LatestFileName), data, 0o644); err != nil {
		return fmt.Errorf("mirror latest artifact: %w", err)
	}
	return nil
}

// Get reads the artifact stored under name.
func (s *FileStore) Get(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Latest reads the mirrored latest artifact.
func (s *FileStore) Latest() (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, LatestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, err
	}
	return LatestFileName, data, nil
}

// List returns the artifact file names, excluding the latest mirror.
func (s *FileStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == LatestFileName {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the artifact file stored under name.
func (s *FileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
