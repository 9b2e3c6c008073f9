package store

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inovacc/gistvault/internal/encoding"
)

// FileStore keeps one 0600 file per key inside a 0700 directory. Keys are
// hex encoded into file names so any string is a valid key.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there. The
// directory must belong to the current user, since it may sit in a shared
// temp dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := encoding.EnsureDir(dir, 0o700); err != nil {
		return nil, err
	}

	if err := checkPrivateDir(dir, os.Getuid()); err != nil {
		return nil, err
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, hex.EncodeToString([]byte(key)))
}

func (f *FileStore) Ping() error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}

	return nil
}

func (f *FileStore) Get(key string) ([]byte, error) {
	data, err := encoding.ReadFile(f.path(key))
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, ErrNotFound
	}

	return data, nil
}

func (f *FileStore) Set(key string, value []byte) error {
	return encoding.WriteFileSecure(f.path(key), value)
}

func (f *FileStore) Delete(key string) error {
	return encoding.RemoveFile(f.path(key))
}

func (f *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}

	var keys []string

	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		k, err := hex.DecodeString(e.Name())
		if err != nil {
			continue
		}

		keys = append(keys, string(k))
	}

	sort.Strings(keys)

	return keys, nil
}

func (f *FileStore) Close() error { return nil }
