// Package builtin holds the colormaps shipped inside the binary.
//
// The JSON documents under colormaps/ are embedded at build time and read
// into a name-indexed table at process start. Each document is decoded on
// its first lookup only; later lookups reuse the decoded map without
// locking. Callers always receive their own copy and may mutate it freely.
package builtin

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

//go:embed colormaps/*.json
var assets embed.FS

var (
	// ErrNotFound is returned for names that are not builtin.
	ErrNotFound = errors.New("builtin colormap not found")

	// ErrMalformedEmbeddedData means an embedded document failed to decode.
	// This is a packaging defect rather than a caller error.
	ErrMalformedEmbeddedData = errors.New("malformed embedded colormap")
)

// LookupError reports a failed builtin lookup.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("loading builtin colormap %q: %s", e.Name, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Entry ties a display name to the logical path of its embedded document.
type Entry struct {
	Name string
	Path string
}

// Entries lists every builtin in display order.
var Entries = []Entry{
	{"Default", "colormaps/default.json"},
	{"Fire", "colormaps/fire.json"},
	{"Ocean", "colormaps/ocean.json"},
	{"Grayscale", "colormaps/grayscale.json"},
	{"Rainbow", "colormaps/rainbow.json"},
	{"Academic", "colormaps/academic.json"},
	{"Twilight Garden", "colormaps/twilight_garden.json"},
	{"Coral Sunset", "colormaps/coral_sunset.json"},
	{"Olive Symmetry", "colormaps/olive_symmetry.json"},
	{"Orchid Garden", "colormaps/orchid_garden.json"},
	{"Frozen Amaranth", "colormaps/frozen_amaranth.json"},
	{"Electric Neon", "colormaps/electric_neon.json"},
	{"Cosmic Dawn", "colormaps/cosmic_dawn.json"},
	{"Vintage Lavender", "colormaps/vintage_lavender.json"},
	{"Spring Meadow", "colormaps/spring_meadow.json"},
	{"Copper Sheen", "colormaps/copper_sheen.json"},
}

var defaultRegistry = mustNewRegistry(assets, Entries, colormap.Parse)

// Registry resolves builtin names to decoded colormaps.
type Registry struct {
	entries []*entry
	byName  map[string]*entry
	decode  func([]byte) (*colormap.ColorMap, error)
}

type entry struct {
	Entry
	data []byte

	once sync.Once
	cm   *colormap.ColorMap
	err  error
}

func newRegistry(fsys fs.FS, table []Entry, decode func([]byte) (*colormap.ColorMap, error)) (*Registry, error) {
	r := &Registry{
		entries: make([]*entry, 0, len(table)),
		byName:  make(map[string]*entry, len(table)),
		decode:  decode,
	}

	for _, e := range table {
		if _, ok := r.byName[e.Name]; ok {
			return nil, fmt.Errorf("duplicate builtin colormap %q", e.Name)
		}

		data, err := fs.ReadFile(fsys, e.Path)
		if err != nil {
			return nil, fmt.Errorf("reading builtin colormap %q: %w", e.Name, err)
		}

		ent := &entry{Entry: e, data: data}
		r.entries = append(r.entries, ent)
		r.byName[e.Name] = ent
	}

	return r, nil
}

func mustNewRegistry(fsys fs.FS, table []Entry, decode func([]byte) (*colormap.ColorMap, error)) *Registry {
	r, err := newRegistry(fsys, table, decode)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the builtin names in display order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// IsBuiltin reports whether name is a builtin colormap.
func (r *Registry) IsBuiltin(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Load returns a copy of the named builtin, decoding it on first use.
func (r *Registry) Load(name string) (*colormap.ColorMap, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, &LookupError{Name: name, Err: ErrNotFound}
	}

	e.once.Do(func() {
		cm, err := r.decode(e.data)
		if err != nil {
			e.err = &LookupError{Name: name, Err: fmt.Errorf("%w: %s: %w", ErrMalformedEmbeddedData, e.Path, err)}
			return
		}
		e.cm = cm
	})

	if e.err != nil {
		return nil, e.err
	}
	return e.cm.Clone(), nil
}

// MustLoad is like Load but panics on failure.
func (r *Registry) MustLoad(name string) *colormap.ColorMap {
	cm, err := r.Load(name)
	if err != nil {
		panic(err)
	}
	return cm
}

// Default returns the process-wide registry of embedded colormaps.
func Default() *Registry {
	return defaultRegistry
}

// Names returns the builtin names in display order.
func Names() []string {
	return defaultRegistry.Names()
}

// IsBuiltin reports whether name is a builtin colormap.
func IsBuiltin(name string) bool {
	return defaultRegistry.IsBuiltin(name)
}

// Load returns a copy of the named builtin colormap.
func Load(name string) (*colormap.ColorMap, error) {
	return defaultRegistry.Load(name)
}

// MustLoad is like Load but panics on failure.
func MustLoad(name string) *colormap.ColorMap {
	return defaultRegistry.MustLoad(name)
}
