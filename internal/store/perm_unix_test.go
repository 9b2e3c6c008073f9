//go:build unix

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreTightensLooseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Chmod(dir, 0o755))

	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestCheckPrivateDir(t *testing.T) {
	base := t.TempDir()

	file := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(base, link))

	tests := []struct {
		name    string
		dir     string
		uid     int
		wantErr bool
	}{
		{"own dir", base, os.Getuid(), false},
		{"other owner", base, os.Getuid() + 1, true},
		{"plain file", file, os.Getuid(), true},
		{"symlink", link, os.Getuid(), true},
		{"missing", filepath.Join(base, "nope"), os.Getuid(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPrivateDir(tt.dir, tt.uid)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}
