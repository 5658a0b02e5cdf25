package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads under dir/<kind>/<owner>.<ext> and serves them
// back through the /uploads static route.
type LocalStore struct {
	dir     string
	baseURL string
	policy  Policy
}

func NewLocalStore(dir, baseURL string, policy Policy) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/"), policy: policy}
}

// Save validates and stores the file, replacing any existing file for the
// same owner and kind.
func (s *LocalStore) Save(ctx context.Context, kind Kind, owner, filename string, content io.Reader, size int64) (string, error) {
	if err := s.policy.Validate(filename, size, kind); err != nil {
		return "", err
	}

	subdir := filepath.Join(s.dir, string(kind))
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	name := owner + "." + Ext(filename)
	dst, err := os.Create(filepath.Join(subdir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, kind, name), nil
}
