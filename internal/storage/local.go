package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// LocalStorage stores objects as files under a media root directory and
// resolves them to URLs under a base URL path served by the API process.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating media root: %w", err)
	}
	return &LocalStorage{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Root returns the media root directory.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	p, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(p)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", err
	}

	return key, nil
}

func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (s *LocalStorage) URL(ctx context.Context, ref string) (string, error) {
	if !isLocalKey(ref) {
		return "", ErrInvalidKey
	}
	return s.baseURL + "/" + path.Clean(ref), nil
}

// resolve maps a key to a path under the media root, rejecting keys that
// would escape it.
func (s *LocalStorage) resolve(key string) (string, error) {
	if !isLocalKey(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func isLocalKey(key string) bool {
	return key != "" && !strings.HasPrefix(key, "/") && filepath.IsLocal(filepath.FromSlash(key))
}
