package local

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/marmitas/internal/archive"
)

var _ archive.Archive = (*LocalArchive)(nil)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalArchiveSaveAndGet(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := a.Save(ctx, "goomer", strings.NewReader("Pedido #1234"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "goomer-"))
	assert.True(t, strings.HasSuffix(key, ".txt"))

	r, err := a.Get(ctx, key)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Pedido #1234", string(data))
}

func TestLocalArchiveSaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	a, err := NewLocalArchive(dir)
	require.NoError(t, err)

	_, err = a.Save(context.Background(), "goomer", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalArchiveCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/notifications"

	a, err := NewLocalArchive(dir)
	require.NoError(t, err)

	_, err = a.Save(context.Background(), "goomer", strings.NewReader("x"))
	assert.NoError(t, err)
}

func TestLocalArchiveNotFound(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	_, err = a.Get(context.Background(), "goomer-20240426-120000.000000000.txt")
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestLocalArchiveRejectsKeysOutsideDirectory(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../../etc/passwd", "/etc/passwd", "sub/goomer.txt"} {
		_, err := a.Get(context.Background(), key)
		assert.ErrorIs(t, err, archive.ErrInvalidKey, key)
	}
}
