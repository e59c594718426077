package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

const (
	appDirName      = "chromatica"
	colormapsDir    = "colormaps"
	colormapFileExt = ".json"
)

// DefaultDirectory returns the per-user directory for custom colormaps,
// creating it when missing:
//   - Linux: $XDG_CONFIG_HOME/chromatica/colormaps or ~/.config/chromatica/colormaps
//   - macOS: ~/Library/Application Support/chromatica/colormaps
//   - Windows: %AppData%\chromatica\colormaps
func DefaultDirectory() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}

	dir := filepath.Join(base, appDirName, colormapsDir)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating colormaps directory: %w", err)
	}
	return dir, nil
}

// FileStore keeps one JSON document per colormap, named "<name>.json".
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir, creating the directory when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating colormaps directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file a colormap name maps to.
func (s *FileStore) Path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+colormapFileExt), nil
}

func (s *FileStore) Save(ctx context.Context, cm *colormap.ColorMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateColorMap(cm); err != nil {
		return err
	}

	path, err := s.Path(cm.Name())
	if err != nil {
		return err
	}

	data, err := encodeColorMap(cm)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write then rename; the document is replaced atomically.
	tmp, err := os.CreateTemp(s.dir, "."+cm.Name()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing colormap %q: %w", cm.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing colormap %q: %w", cm.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving colormap %q: %w", cm.Name(), err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, name string) (*colormap.ColorMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading colormap %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("reading colormap %q: %w", name, err)
	}

	return decodeColorMap(name, data)
}

// LoadFile decodes a colormap document from an arbitrary path.
func LoadFile(path string) (*colormap.ColorMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening colormap file: %w", err)
	}
	defer f.Close()

	cm, err := colormap.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cm, nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entries, err := os.ReadDir(s.dir)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("listing colormaps: %w", err)
	}

	var names []string
	for _, e := range entries {
		fileName := e.Name()
		if e.IsDir() || strings.HasPrefix(fileName, ".") || filepath.Ext(fileName) != colormapFileExt {
			continue
		}
		names = append(names, strings.TrimSuffix(fileName, colormapFileExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.Path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting colormap %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("deleting colormap %q: %w", name, err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}
