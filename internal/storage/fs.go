package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FS implements Provider backed by a local directory. URLs are formed
// as baseURL + "/" + name; the HTTP layer serves them back via Path.
type FS struct {
	root    string // absolute path to the blob directory
	baseURL string // public URL prefix, no trailing slash
}

// NewFS creates a new FS provider rooted at the given directory,
// creating it if needed.
func NewFS(root, baseURL string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &FS{root: abs, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// safeName rejects anything that is not a plain file name and returns
// the absolute path under the blob root.
func (f *FS) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: name is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("storage: invalid name: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes blob root: %s", name)
	}
	return abs, nil
}

// Save atomically writes content under a generated name: tmp file →
// fsync → rename. Returns the stable retrieval URL.
func (f *FS) Save(data []byte, ext string) (string, error) {
	name := uuid.NewString() + strings.ToLower(ext)
	abs, err := f.safeName(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(f.root, ".blob-tmp-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return "", fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return f.baseURL + "/" + name, nil
}

// Path resolves a blob name for serving.
func (f *FS) Path(name string) (string, error) {
	abs, err := f.safeName(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("storage: stat %s: %w", name, err)
	}
	return abs, nil
}

// Delete removes a blob.
func (f *FS) Delete(name string) error {
	abs, err := f.safeName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}
