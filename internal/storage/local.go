package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend stores file bytes in a single flat directory. Filenames are
// expected to be sanitized already; anything that still looks like a path is
// rejected so no write can escape the directory.
type LocalBackend struct {
	dir string
}

// NewLocalBackend creates the upload directory if needed and returns a
// backend rooted at it.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalBackend{dir: dir}, nil
}

// Dir returns the directory the backend writes into.
func (l *LocalBackend) Dir() string {
	return l.dir
}

func (l *LocalBackend) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("unsafe filename %q", name)
	}
	return filepath.Join(l.dir, name), nil
}

// Save writes content under name, truncating any previous file of that name.
func (l *LocalBackend) Save(name string, content io.Reader) (int64, error) {
	p, err := l.path(name)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(p)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A half-written file is worse than no file.
		_ = os.Remove(p)
		return 0, err
	}
	return n, nil
}

// Open returns a reader over the stored bytes and their size.
func (l *LocalBackend) Open(name string) (io.ReadCloser, int64, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, 0, ErrNotExist
	}
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Remove deletes the stored bytes for name.
func (l *LocalBackend) Remove(name string) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}

	err = os.Remove(p)
	if os.IsNotExist(err) {
		return ErrNotExist
	}
	return err
}

// Exists reports whether name has stored bytes.
func (l *LocalBackend) Exists(name string) (bool, error) {
	p, err := l.path(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(p)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every stored filename.
func (l *LocalBackend) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
