package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type fileStore struct {
	base string
}

func OpenFile(_ context.Context, c Config) (Store, error) {
	if c.BaseDir == "" {
		return nil, fmt.Errorf("base_dir required for file driver")
	}
	return &fileStore{base: c.BaseDir}, nil
}

func (s *fileStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path := filepath.Join(s.base, filepath.FromSlash(sanitizeKey(key)))
	return os.Open(path)
}

func (s *fileStore) Close() error { return nil }
