package fsys_test

import (
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graftwire/graft/fsys"
)

// both implementations must agree on the surface behavior
func filesystems(t *testing.T) map[string]fsys.Filesystem {
	t.Helper()

	dir := t.TempDir()
	return map[string]fsys.Filesystem{
		"os":     rooted{base: dir, fs: fsys.NewOS()},
		"memory": fsys.NewMemory(),
	}
}

// rooted prefixes paths so the OS implementation stays inside TempDir.
type rooted struct {
	base string
	fs   fsys.Filesystem
}

func (r rooted) abs(name string) string { return filepath.Join(r.base, name) }

func (r rooted) Open(name string) (io.ReadCloser, error) { return r.fs.Open(r.abs(name)) }
func (r rooted) ReadFile(name string) ([]byte, error)    { return r.fs.ReadFile(r.abs(name)) }
func (r rooted) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return r.fs.WriteFile(r.abs(name), data, perm)
}
func (r rooted) Exists(name string) bool { return r.fs.Exists(r.abs(name)) }
func (r rooted) IsDir(name string) bool  { return r.fs.IsDir(r.abs(name)) }
func (r rooted) MkdirAll(path string, perm fs.FileMode) error {
	return r.fs.MkdirAll(r.abs(path), perm)
}
func (r rooted) Remove(name string) error            { return r.fs.Remove(r.abs(name)) }
func (r rooted) ReadDir(name string) ([]string, error) { return r.fs.ReadDir(r.abs(name)) }
func (r rooted) Glob(pattern string) ([]string, error) {
	matches, err := r.fs.Glob(r.abs(pattern))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		rel, err := filepath.Rel(r.base, m)
		if err != nil {
			return nil, err
		}
		out[i] = filepath.ToSlash(rel)
	}
	sort.Strings(out)
	return out, nil
}
func (r rooted) Rename(oldpath, newpath string) error {
	return r.fs.Rename(r.abs(oldpath), r.abs(newpath))
}
func (r rooted) Size(name string) (int64, error) { return r.fs.Size(r.abs(name)) }

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	for name, f := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, f.MkdirAll("conf", 0o755))
			require.NoError(t, f.WriteFile("conf/app.yaml", []byte("debug: true"), 0o644))

			data, err := f.ReadFile("conf/app.yaml")
			require.NoError(t, err)
			assert.Equal(t, "debug: true", string(data))

			rc, err := f.Open("conf/app.yaml")
			require.NoError(t, err)
			streamed, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, data, streamed)

			size, err := f.Size("conf/app.yaml")
			require.NoError(t, err)
			assert.Equal(t, int64(len("debug: true")), size)
		})
	}
}

func TestExistsAndIsDir(t *testing.T) {
	t.Parallel()

	for name, f := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, f.MkdirAll("data/sub", 0o755))
			require.NoError(t, f.WriteFile("data/file.txt", []byte("x"), 0o644))

			assert.True(t, f.Exists("data"))
			assert.True(t, f.Exists("data/file.txt"))
			assert.False(t, f.Exists("data/ghost.txt"))

			assert.True(t, f.IsDir("data"))
			assert.True(t, f.IsDir("data/sub"))
			assert.False(t, f.IsDir("data/file.txt"))
		})
	}
}

func TestReadDirSorted(t *testing.T) {
	t.Parallel()

	for name, f := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, f.MkdirAll("d/nested", 0o755))
			require.NoError(t, f.WriteFile("d/b.txt", []byte("b"), 0o644))
			require.NoError(t, f.WriteFile("d/a.txt", []byte("a"), 0o644))

			names, err := f.ReadDir("d")
			require.NoError(t, err)
			assert.Equal(t, []string{"a.txt", "b.txt", "nested"}, names)

			_, err = f.ReadDir("missing")
			assert.Error(t, err)
		})
	}
}

func TestGlob(t *testing.T) {
	t.Parallel()

	for name, f := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, f.MkdirAll("logs", 0o755))
			require.NoError(t, f.WriteFile("logs/app.log", []byte("1"), 0o644))
			require.NoError(t, f.WriteFile("logs/db.log", []byte("2"), 0o644))
			require.NoError(t, f.WriteFile("logs/readme.md", []byte("3"), 0o644))

			matches, err := f.Glob("logs/*.log")
			require.NoError(t, err)
			assert.Equal(t, []string{"logs/app.log", "logs/db.log"}, matches)
		})
	}
}

func TestRenameAndRemove(t *testing.T) {
	t.Parallel()

	for name, f := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, f.WriteFile("old.txt", []byte("payload"), 0o644))
			require.NoError(t, f.Rename("old.txt", "new.txt"))

			assert.False(t, f.Exists("old.txt"))
			data, err := f.ReadFile("new.txt")
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))

			require.NoError(t, f.Remove("new.txt"))
			assert.False(t, f.Exists("new.txt"))
			assert.Error(t, f.Remove("new.txt"))
		})
	}
}

func TestMemoryRejectsRemovingNonEmptyDir(t *testing.T) {
	t.Parallel()

	m := fsys.NewMemory()
	require.NoError(t, m.WriteFile("d/inner.txt", []byte("x"), 0o644))
	assert.Error(t, m.Remove("d"))
	require.NoError(t, m.Remove("d/inner.txt"))
	require.NoError(t, m.Remove("d"))
}

func TestMemoryReadsAreCopies(t *testing.T) {
	t.Parallel()

	m := fsys.NewMemory()
	require.NoError(t, m.WriteFile("f", []byte("abc"), 0o644))

	data, err := m.ReadFile("f")
	require.NoError(t, err)
	data[0] = 'X'

	again, err := m.ReadFile("f")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
