package encoding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[sample]([]byte(`{"name":"a","count":2}`))
	require.NoError(t, err)
	assert.Equal(t, &sample{Name: "a", Count: 2}, got)

	_, err = ParseJSON[sample]([]byte(`{not json`))
	require.Error(t, err)
}

func TestToJSONIndent(t *testing.T) {
	out, err := ToJSONIndent(sample{Name: "a", Count: 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"a\",\n  \"count\": 1\n}", string(out))
}

func TestReindent(t *testing.T) {
	out, err := Reindent([]byte(`{"items":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"items\": []\n}", string(out))

	_, err = Reindent([]byte(`nope`))
	require.Error(t, err)
}

func TestWriteReadRemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "value")

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, WriteFileSecure(path, []byte("hello")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, RemoveFile(path))
	require.NoError(t, RemoveFile(path))
}
