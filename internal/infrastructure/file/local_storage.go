package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage keeps uploaded files under BaseDir/tmp until the
// orchestrator has fanned their rows out, then deletes them.
type LocalStorage struct {
	BaseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalStorage{BaseDir: baseDir}
}

// Store writes r to a fresh file and returns its storage path. The
// original filename only contributes its extension; the name itself is
// random to keep concurrent uploads apart.
func (s *LocalStorage) Store(ctx context.Context, name string, r io.Reader) (string, error) {
	_ = ctx

	dir := filepath.Join(s.BaseDir, "tmp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join("tmp", uuid.NewString()+filepath.Ext(name))
	f, err := os.Create(filepath.Join(s.BaseDir, path))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(filepath.Join(s.BaseDir, path))
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	_ = ctx

	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.BaseDir, path)
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", full, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	_ = ctx

	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.BaseDir, path)
	}

	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file %s: %w", full, err)
	}
	return nil
}
