package archive

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound   = errors.New("notification not found")
	ErrInvalidKey = errors.New("invalid notification key")
)

// Archive keeps the raw text of received notifications. Save returns the key
// that Get accepts to read the same text back for a replay.
type Archive interface {
	Save(ctx context.Context, prefix string, r io.Reader) (key string, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
