package fsys

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Filesystem for tests. Paths are slash-separated
// and cleaned; intermediate directories appear implicitly on write. Safe
// for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
		dirs:  map[string]struct{}{".": {}},
	}
}

func norm(name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}

func (m *Memory) addParentsLocked(name string) {
	for dir := path.Dir(name); ; dir = path.Dir(dir) {
		m.dirs[dir] = struct{}{}
		if dir == "." || dir == "/" {
			return
		}
	}
}

func (m *Memory) Open(name string) (io.ReadCloser, error) {
	data, err := m.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[norm(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) WriteFile(name string, data []byte, _ fs.FileMode) error {
	n := norm(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dirs[n]; ok {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	m.files[n] = append([]byte(nil), data...)
	m.addParentsLocked(n)
	return nil
}

func (m *Memory) Exists(name string) bool {
	n := norm(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[n]; ok {
		return true
	}
	_, ok := m.dirs[n]
	return ok
}

func (m *Memory) IsDir(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.dirs[norm(name)]
	return ok
}

func (m *Memory) MkdirAll(p string, _ fs.FileMode) error {
	n := norm(p)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[n]; ok {
		return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrExist}
	}
	m.dirs[n] = struct{}{}
	m.addParentsLocked(n)
	return nil
}

// Remove deletes a file, or a directory when it is empty.
func (m *Memory) Remove(name string) error {
	n := norm(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[n]; ok {
		delete(m.files, n)
		return nil
	}
	if _, ok := m.dirs[n]; ok {
		prefix := n + "/"
		for f := range m.files {
			if strings.HasPrefix(f, prefix) {
				return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
			}
		}
		for d := range m.dirs {
			if strings.HasPrefix(d, prefix) {
				return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
			}
		}
		delete(m.dirs, n)
		return nil
	}
	return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
}

// ReadDir returns the sorted names of the directory's direct children.
func (m *Memory) ReadDir(name string) ([]string, error) {
	n := norm(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.dirs[n]; !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	prefix := n + "/"
	if n == "." {
		prefix = ""
	}

	seen := make(map[string]struct{})
	collect := func(p string) {
		if !strings.HasPrefix(p, prefix) || p == n {
			return
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		if rest != "" && rest != "." {
			seen[rest] = struct{}{}
		}
	}
	for f := range m.files {
		collect(f)
	}
	for d := range m.dirs {
		collect(d)
	}

	names := make([]string, 0, len(seen))
	for child := range seen {
		names = append(names, child)
	}
	sort.Strings(names)
	return names, nil
}

// Glob matches file paths against a path.Match pattern.
func (m *Memory) Glob(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for f := range m.files {
		ok, err := path.Match(pattern, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Rename(oldpath, newpath string) error {
	op, np := norm(oldpath), norm(newpath)

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[op]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	delete(m.files, op)
	m.files[np] = data
	m.addParentsLocked(np)
	return nil
}

func (m *Memory) Size(name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[norm(name)]
	if !ok {
		return 0, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return int64(len(data)), nil
}
