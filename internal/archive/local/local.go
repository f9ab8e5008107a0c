package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vbonduro/marmitas/internal/archive"
)

const keyTimeLayout = "20060102-150405.000000000"

// LocalArchive keeps one text file per notification in a flat directory.
type LocalArchive struct {
	dir string
}

func NewLocalArchive(dir string) (*LocalArchive, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchive{dir: dir}, nil
}

// Save writes into a hidden temporary file and renames it into place, so a
// returned key always names a complete notification.
func (a *LocalArchive) Save(ctx context.Context, prefix string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(a.dir, ".incoming-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "failed to remove temporary archive file", "file", tmp.Name(), "error", err)
		}
	}()

	_, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return "", fmt.Errorf("failed to write notification: %w", err)
	}

	key := fmt.Sprintf("%s-%s.txt", prefix, time.Now().UTC().Format(keyTimeLayout))
	if err := os.Rename(tmp.Name(), filepath.Join(a.dir, key)); err != nil {
		return "", fmt.Errorf("failed to store notification: %w", err)
	}
	return key, nil
}

// Get opens an archived notification. Keys are bare file names; anything
// that would leave the archive directory is rejected.
func (a *LocalArchive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" || !filepath.IsLocal(key) || filepath.Base(key) != key {
		return nil, archive.ErrInvalidKey
	}

	f, err := os.Open(filepath.Join(a.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, archive.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open notification: %w", err)
	}
	return f, nil
}
