package collector

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source opens snapshot files by name.
type Source interface {
	// Open returns an error wrapping fs.ErrNotExist when the file is absent.
	Open(name string) (io.ReadCloser, error)
	Name() string
}

// DirSource reads snapshot files from a directory.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource { return &DirSource{Dir: dir} }

func (d *DirSource) Name() string { return d.Dir }

func (d *DirSource) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// MemorySource serves fixed file contents for development and testing.
type MemorySource struct {
	Files map[string]string
}

func (m *MemorySource) Name() string { return "memory" }

func (m *MemorySource) Open(name string) (io.ReadCloser, error) {
	body, ok := m.Files[name]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", name, fs.ErrNotExist)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}
