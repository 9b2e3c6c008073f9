package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()

	bolt, err := NewBolt(filepath.Join(dir, "test.bolt"))
	require.NoError(t, err)

	sqlite, err := NewSQLite(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	files, err := NewFileStore(filepath.Join(dir, "session"))
	require.NoError(t, err)

	backends := map[string]Store{
		"bolt":   bolt,
		"sqlite": sqlite,
		"file":   files,
		"memory": NewMemory(),
	}

	t.Cleanup(func() {
		for _, s := range backends {
			_ = s.Close()
		}
	})

	return backends
}

func TestStoreContract(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Ping())

			_, err := s.Get("missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set("app_auth_state", []byte(`{"username":"alice"}`)))
			got, err := s.Get("app_auth_state")
			require.NoError(t, err)
			assert.Equal(t, `{"username":"alice"}`, string(got))

			// last value wins
			require.NoError(t, s.Set("gistId", []byte("abc")))
			require.NoError(t, s.Set("gistId", []byte("def")))
			v, err := GetString(s, "gistId")
			require.NoError(t, err)
			assert.Equal(t, "def", v)

			keys, err := s.Keys()
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"app_auth_state", "gistId"}, keys)

			require.NoError(t, s.Delete("gistId"))
			require.NoError(t, s.Delete("gistId"))

			ok, err := Has(s, "gistId")
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = Has(s, "app_auth_state")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.bolt")

	b, err := NewBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Set("settings_gist_id", []byte("g1")))
	require.NoError(t, b.Close())

	b, err = NewBolt(path)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	v, err := GetString(b, "settings_gist_id")
	require.NoError(t, err)
	assert.Equal(t, "g1", v)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	value := []byte("abc")
	require.NoError(t, m.Set("k", value))

	value[0] = 'x'

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		input   string
		want    Driver
		wantErr bool
	}{
		{"", DriverBolt, false},
		{"bolt", DriverBolt, false},
		{"SQLite", DriverSQLite, false},
		{" memory ", DriverMemory, false},
		{"postgres", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDriver(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenUsesDriverFileName(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(DriverSQLite, dir, "", "gistvault")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, "gistvault.db"))

	s, err = Open(DriverBolt, dir, "", "gistvault")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, "gistvault.bolt"))

	s, err = Open(DriverMemory, dir, "", "gistvault")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
}
