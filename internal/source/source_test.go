package source_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logpretty/internal/source"
)

const content = "{\"level\":30,\"msg\":\"one\"}\nplain line\n"

func TestOpen_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	assertReads(t, path, content)
}

func TestOpen_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	assertReads(t, path, content)
}

func TestOpen_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	assertReads(t, path, content)
}

func TestOpen_Errors(t *testing.T) {
	_, err := source.Open(filepath.Join(t.TempDir(), "missing.log"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	notGzip := filepath.Join(t.TempDir(), "fake.gz")
	require.NoError(t, os.WriteFile(notGzip, []byte("not gzip at all"), 0644))
	_, err = source.Open(notGzip)
	assert.Error(t, err)
}

func TestOpen_Stdin(t *testing.T) {
	for _, path := range []string{"", source.Stdin} {
		rc, err := source.Open(path)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
	}
	// closing the stdin reader must not close os.Stdin
	_, err := os.Stdin.Stat()
	assert.NoError(t, err)
}

func assertReads(t *testing.T, path, want string) {
	t.Helper()
	rc, err := source.Open(path)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
}
