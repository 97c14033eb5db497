// Package storage provides durable byte storage for uploaded file content,
// addressed by sanitized filename.
package storage

import (
	"errors"
	"io"
)

// ErrNotExist is returned when the requested filename has no stored bytes.
var ErrNotExist = errors.New("file does not exist")

// Backend stores uploaded file bytes. Save overwrites an existing name
// (last write wins); nothing here coordinates concurrent writers beyond what
// the underlying store guarantees for a single write.
type Backend interface {
	// Save writes the content under name, returning the byte count written.
	Save(name string, content io.Reader) (int64, error)
	// Open returns a reader over the stored bytes and their size.
	Open(name string) (io.ReadCloser, int64, error)
	// Remove deletes the stored bytes, ErrNotExist when absent.
	Remove(name string) error
	// Exists reports whether name has stored bytes.
	Exists(name string) (bool, error)
	// List returns every stored filename.
	List() ([]string, error)
}
