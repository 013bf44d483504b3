package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fsScheme = "file://"

// FSStore stores model artifacts on the local filesystem under a root
// directory. Writes go through a temp file and rename so a crash never
// leaves a partial artifact behind.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact root: %w", err)
	}
	return &FSStore{root: abs}, nil
}

// Put writes artifact bytes under the given key and returns a file:// URI
func (s *FSStore) Put(_ context.Context, key string, data []byte) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("persisting artifact: %w", err)
	}
	return fsScheme + path, nil
}

// Get reads artifact bytes back from a file:// URI
func (s *FSStore) Get(_ context.Context, uri string) ([]byte, error) {
	path, err := s.pathFromURI(uri)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return data, nil
}

// Delete removes the artifact and prunes its directory if now empty
func (s *FSStore) Delete(_ context.Context, uri string) error {
	path, err := s.pathFromURI(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing artifact: %w", err)
	}
	os.Remove(filepath.Dir(path)) // fails when non-empty, which is fine
	return nil
}

func (s *FSStore) resolve(key string) (string, error) {
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("artifact key %q escapes storage root", key)
		}
	}
	path := filepath.Join(s.root, key)
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact key %q escapes storage root", key)
	}
	return path, nil
}

func (s *FSStore) pathFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, fsScheme) {
		return "", fmt.Errorf("not a file URI: %s", uri)
	}
	path := strings.TrimPrefix(uri, fsScheme)
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact URI %q outside storage root", uri)
	}
	return path, nil
}
