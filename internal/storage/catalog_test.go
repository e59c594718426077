package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/roman-kulish/chromatica/internal/builtin"
	"github.com/roman-kulish/chromatica/internal/colormap"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return NewCatalog(s)
}

func TestCatalog_LoadPrefersBuiltins(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	impostor := newTestColorMap(t, "Fire",
		colormap.NewColorStop(0, colormap.White),
		colormap.NewColorStop(1, colormap.White),
	)
	if err := c.Save(ctx, impostor); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cm, err := c.Load(ctx, "Fire")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cm.Color(0); got != colormap.Black {
		t.Errorf("Fire Color(0) = %v, want the builtin %v", got, colormap.Black)
	}
}

func TestCatalog_LoadCustom(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	if err := c.Save(ctx, newTestColorMap(t, "Mine")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := c.Load(ctx, "Mine"); err != nil {
		t.Errorf("Load(Mine) failed: %v", err)
	}
	if _, err := c.Load(ctx, "Nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(Nobody) error = %v, want %v", err, ErrNotFound)
	}
}

func TestCatalog_List(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	for _, name := range []string{"Ocean", "Zeta", "Beta"} {
		if err := c.Save(ctx, newTestColorMap(t, name)); err != nil {
			t.Fatalf("Save(%q) failed: %v", name, err)
		}
	}

	infos, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	builtins := builtin.Names()
	if len(infos) != len(builtins)+2 {
		t.Fatalf("List returned %d entries, want %d", len(infos), len(builtins)+2)
	}
	for i, name := range builtins {
		if infos[i].Name != name || !infos[i].Builtin {
			t.Errorf("infos[%d] = %+v, want builtin %q", i, infos[i], name)
		}
	}

	custom := infos[len(builtins):]
	if custom[0] != (Info{Name: "Beta"}) || custom[1] != (Info{Name: "Zeta"}) {
		t.Errorf("custom entries = %+v, want Beta then Zeta", custom)
	}
}

func TestCatalog_DeleteBuiltin(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.Delete(context.Background(), "Ocean"); !errors.Is(err, ErrBuiltinReadOnly) {
		t.Errorf("Delete(Ocean) error = %v, want %v", err, ErrBuiltinReadOnly)
	}
	if !builtin.IsBuiltin("Ocean") {
		t.Error("Ocean is no longer a builtin")
	}
}

func TestCatalog_Export(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	cm, err := c.Export(ctx, "Twilight Garden")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if cm.Name() != "Twilight Garden (custom)" {
		t.Errorf("exported name = %q", cm.Name())
	}

	stored, err := c.Load(ctx, "Twilight Garden (custom)")
	if err != nil {
		t.Fatalf("Load of exported copy failed: %v", err)
	}
	if stored.Len() != builtin.MustLoad("Twilight Garden").Len() {
		t.Errorf("exported copy has %d stops, want %d", stored.Len(), builtin.MustLoad("Twilight Garden").Len())
	}

	if err = c.Delete(ctx, "Twilight Garden (custom)"); err != nil {
		t.Errorf("deleting the exported copy failed: %v", err)
	}

	if _, err = c.Export(ctx, "Nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Export(Nope) error = %v, want %v", err, ErrNotFound)
	}
}

func TestCatalog_CacheFollowsStore(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	if err := c.Save(ctx, newTestColorMap(t, "Cached")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, err := c.Load(ctx, "Cached")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first.AddStop(colormap.NewColorStop(0.25, colormap.Black))

	second, err := c.Load(ctx, "Cached")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if second.Len() != 3 {
		t.Errorf("cached copy has %d stops after mutating a loaded map, want 3", second.Len())
	}

	replacement := newTestColorMap(t, "Cached",
		colormap.NewColorStop(0, colormap.White),
		colormap.NewColorStop(1, colormap.Black),
	)
	if err = c.Save(ctx, replacement); err != nil {
		t.Fatalf("Save of replacement failed: %v", err)
	}
	third, err := c.Load(ctx, "Cached")
	if err != nil {
		t.Fatalf("Load after replace failed: %v", err)
	}
	if got := third.Color(0); got != colormap.White {
		t.Errorf("Color(0) after replace = %v, want %v", got, colormap.White)
	}

	if err = c.Delete(ctx, "Cached"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err = c.Load(ctx, "Cached"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete error = %v, want %v", err, ErrNotFound)
	}
}

// pausingStore blocks Load after reading until release is closed.
type pausingStore struct {
	Store
	loaded  chan struct{}
	release chan struct{}
}

func (s *pausingStore) Load(ctx context.Context, name string) (*colormap.ColorMap, error) {
	cm, err := s.Store.Load(ctx, name)
	close(s.loaded)
	<-s.release
	return cm, err
}

func TestCatalog_LoadDoesNotCacheStaleRead(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	stale := newTestColorMap(t, "Racy",
		colormap.NewColorStop(0, colormap.Black),
		colormap.NewColorStop(1, colormap.Black),
	)
	if err = fs.Save(ctx, stale); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s := &pausingStore{Store: fs, loaded: make(chan struct{}), release: make(chan struct{})}
	c := NewCatalog(s)

	done := make(chan error, 1)
	go func() {
		_, err := c.Load(ctx, "Racy")
		done <- err
	}()

	<-s.loaded
	fresh := newTestColorMap(t, "Racy",
		colormap.NewColorStop(0, colormap.White),
		colormap.NewColorStop(1, colormap.White),
	)
	if err = c.Save(ctx, fresh); err != nil {
		t.Fatalf("Save of fresh map failed: %v", err)
	}
	close(s.release)
	if err = <-done; err != nil {
		t.Fatalf("concurrent Load failed: %v", err)
	}

	// The store is no longer paused; loaded is already closed.
	c.store = fs
	cm, err := c.Load(ctx, "Racy")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cm.Color(0); got != colormap.White {
		t.Errorf("Color(0) = %v, want %v from the fresh save", got, colormap.White)
	}
}

func TestNewCatalogWithCache_InvalidSize(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if _, err = NewCatalogWithCache(s, 0); err == nil {
		t.Error("expected an error for a zero cache size")
	}
}
