package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *LocalBackend {
	t.Helper()
	b, err := NewLocalBackend(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return b
}

func TestSaveOpenRoundTrip(t *testing.T) {
	b := newTestBackend(t)
	content := []byte("ten bytes!")

	n, err := b.Save("report.pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.EqualValues(t, len(content), n)

	r, size, err := b.Open("report.pdf")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.EqualValues(t, len(content), size)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSaveOverwrites(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.Save("x.pdf", bytes.NewReader([]byte("first version")))
	require.NoError(t, err)
	_, err = b.Save("x.pdf", bytes.NewReader([]byte("second")))
	require.NoError(t, err)

	r, size, err := b.Open("x.pdf")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
	assert.EqualValues(t, len("second"), size)

	names, err := b.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"x.pdf"}, names)
}

func TestOpenMissing(t *testing.T) {
	b := newTestBackend(t)

	_, _, err := b.Open("nothing.pdf")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestRemove(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.Save("gone.pdf", bytes.NewReader([]byte("bye")))
	require.NoError(t, err)

	assert.NoError(t, b.Remove("gone.pdf"))

	exists, err := b.Exists("gone.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, b.Remove("gone.pdf"), ErrNotExist)
}

func TestRemoveMissingLeavesDirUnchanged(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.Save("keep.pdf", bytes.NewReader([]byte("keep")))
	require.NoError(t, err)

	assert.ErrorIs(t, b.Remove("absent.pdf"), ErrNotExist)

	names, err := b.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.pdf"}, names)
}

func TestRejectsPathLikeNames(t *testing.T) {
	b := newTestBackend(t)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		_, err := b.Save(name, bytes.NewReader([]byte("x")))
		assert.Error(t, err, "name %q should be rejected", name)
	}

	// Nothing may have been written outside the directory
	parent := filepath.Dir(b.Dir())
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the uploads dir itself should exist")
}
