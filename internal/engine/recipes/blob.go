package recipes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrBlobNotFound is returned by BlobStore.Get for absent keys.
var ErrBlobNotFound = errors.New("blob not found")

// likePattern turns a literal key prefix into a LIKE pattern. Video IDs can
// contain '_', which LIKE would otherwise treat as a single-char wildcard.
func likePattern(prefix string) string {
	esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return esc.Replace(prefix) + "%"
}

// BlobStore is a path-addressable byte store with atomic single-key writes.
// Keys are slash-separated paths ("recipes/abc123/v1.json"). The version
// store builds everything on top of this interface; backends are
// interchangeable.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	// List returns all keys with the given prefix, ascending.
	List(ctx context.Context, prefix string) ([]string, error)
}

// FSBlobs stores blobs as files under a root directory.
type FSBlobs struct {
	dir string
}

// OpenFSBlobs creates the directory if needed. Empty dir defaults to
// ~/.go_recipes.
func OpenFSBlobs(dir string) (*FSBlobs, error) {
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".go_recipes")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("blobs: mkdir %s: %w", dir, err)
	}
	return &FSBlobs{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FSBlobs) Dir() string { return s.dir }

func (s *FSBlobs) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

func (s *FSBlobs) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrBlobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("blobs: read %s: %w", key, err)
	}
	return data, nil
}

// Put writes via a temp file + rename so readers never observe a torn write.
func (s *FSBlobs) Put(_ context.Context, key string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("blobs: mkdir for %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("blobs: temp for %s: %w", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("blobs: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("blobs: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("blobs: rename %s: %w", key, err)
	}
	return nil
}

func (s *FSBlobs) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("blobs: delete %s: %w", key, err)
	}
	return nil
}

func (s *FSBlobs) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasPrefix(filepath.Base(path), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blobs: list %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}
