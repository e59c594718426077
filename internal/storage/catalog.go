package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/roman-kulish/chromatica/internal/builtin"
	"github.com/roman-kulish/chromatica/internal/colormap"
)

// Info describes a colormap available through a Catalog.
type Info struct {
	Name    string
	Builtin bool
}

// DefaultCacheSize is the number of decoded custom colormaps a Catalog keeps.
const DefaultCacheSize = 64

// Catalog combines the builtin colormaps with a Store of custom ones.
// Builtins take precedence: a custom colormap named like a builtin is
// shadowed and never returned.
type Catalog struct {
	store    Store
	builtins *builtin.Registry

	mu    sync.Mutex
	cache *simplelru.LRU
	// gen counts evictions; a Load only caches what it read if no Save or
	// Delete happened meanwhile.
	gen uint64
}

// NewCatalog creates a catalog over store and the default builtin registry.
func NewCatalog(store Store) *Catalog {
	c, err := NewCatalogWithCache(store, DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalogWithCache creates a catalog caching up to size decoded custom
// colormaps.
func NewCatalogWithCache(store Store, size int) (*Catalog, error) {
	cache, err := simplelru.NewLRU(size, nil /* no onEvict policy */)
	if err != nil {
		return nil, fmt.Errorf("creating colormap cache: %w", err)
	}
	return &Catalog{store: store, builtins: builtin.Default(), cache: cache}, nil
}

// Store returns the store holding custom colormaps.
func (c *Catalog) Store() Store {
	return c.store
}

// Load returns the named colormap, looking at builtins first.
func (c *Catalog) Load(ctx context.Context, name string) (*colormap.ColorMap, error) {
	if c.builtins.IsBuiltin(name) {
		return c.builtins.Load(name)
	}

	cm, gen, ok := c.cached(name)
	if ok {
		return cm, nil
	}

	cm, err := c.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.cache.Add(name, cm.Clone())
	}
	c.mu.Unlock()
	return cm, nil
}

// cached returns a copy of the cached colormap, or the current generation
// on a miss.
func (c *Catalog) cached(name string) (*colormap.ColorMap, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(name)
	if !ok {
		return nil, c.gen, false
	}
	return v.(*colormap.ColorMap).Clone(), c.gen, true
}

func (c *Catalog) evict(name string) {
	c.mu.Lock()
	c.gen++
	c.cache.Remove(name)
	c.mu.Unlock()
}

// List returns the builtin colormaps in display order followed by custom
// colormaps in name order.
func (c *Catalog) List(ctx context.Context) ([]Info, error) {
	names := c.builtins.Names()

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		infos = append(infos, Info{Name: name, Builtin: true})
	}

	custom, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range custom {
		if c.builtins.IsBuiltin(name) {
			continue
		}
		infos = append(infos, Info{Name: name})
	}
	return infos, nil
}

// Save stores a custom colormap.
func (c *Catalog) Save(ctx context.Context, cm *colormap.ColorMap) error {
	defer c.evict(cm.Name())
	return c.store.Save(ctx, cm)
}

// Delete removes a custom colormap. Builtins cannot be deleted.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	if c.builtins.IsBuiltin(name) {
		return fmt.Errorf("deleting colormap %q: %w", name, ErrBuiltinReadOnly)
	}
	defer c.evict(name)
	return c.store.Delete(ctx, name)
}

// Export copies a builtin colormap into the store so it can be edited.
// The copy is saved under "<name> (custom)" since the builtin name would
// shadow it.
func (c *Catalog) Export(ctx context.Context, name string) (*colormap.ColorMap, error) {
	cm, err := c.builtins.Load(name)
	if err != nil {
		if errors.Is(err, builtin.ErrNotFound) {
			return nil, fmt.Errorf("exporting colormap %q: %w", name, ErrNotFound)
		}
		return nil, err
	}

	cm.SetName(name + " (custom)")
	if err = c.Save(ctx, cm); err != nil {
		return nil, fmt.Errorf("exporting colormap %q: %w", name, err)
	}
	return cm, nil
}
