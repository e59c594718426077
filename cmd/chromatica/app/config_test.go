package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
storage:
  backend: sqlite
  path: /tmp/colormaps.db
render:
  format: jpeg
  barWidth: 300
fractal:
  colormap: Fire
  maxIterations: 1000
  cycle: true
  period: 32
  interior: navy
`)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := NewConfig()
	want.Settings.LogLevel = LogLevel(slog.LevelDebug)
	want.Storage = StorageConfig{Backend: StorageBackendSqlite, Path: "/tmp/colormaps.db"}
	want.Render.Format = "jpeg"
	want.Render.BarWidth = 300
	want.Fractal.Colormap = "Fire"
	want.Fractal.MaxIterations = 1000
	want.Fractal.Cycle = true
	want.Fractal.Period = 32
	want.Fractal.Interior = HexColor(colormap.NewColor(0, 0, 128))

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got := c.Settings.LogLevel.Level(); got != slog.LevelDebug {
		t.Errorf("Level() = %v, want %v", got, slog.LevelDebug)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown field", body: "render:\n  colour: red\n", wantErr: "colour"},
		{name: "bad log level", body: "settings:\n  logLevel: loud\n", wantErr: "app.LogLevel"},
		{name: "bad interior", body: "fractal:\n  interior: notacolor\n", wantErr: "app.HexColor"},
		{name: "bad format", body: "render:\n  format: gif\n", wantErr: "invalid image format"},
		{name: "bad backend", body: "storage:\n  backend: redis\n", wantErr: "unknown backend"},
		{name: "sqlite without path", body: "storage:\n  backend: sqlite\n", wantErr: "database path"},
		{name: "zero zoom", body: "fractal:\n  zoom: 0\n", wantErr: "zoom"},
		{name: "tiny lut", body: "fractal:\n  lutSize: 1\n", wantErr: "lutSize"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestNewConfig_IsValid(t *testing.T) {
	if err := NewConfig().Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestFractalConfig_Mapper(t *testing.T) {
	c := NewConfig().Fractal
	c.LogScale = true
	c.Interior = HexColor(colormap.White)

	m := c.Mapper()
	if m.Interior != colormap.White || m.Period != colormap.DefaultPeriod || !m.LogScale || m.LUT != nil {
		t.Errorf("Mapper() = %+v", m)
	}
}

func TestHexColor_Set(t *testing.T) {
	var c HexColor
	if err := c.Set("#ff8000"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if c.String() != "#ff8000" {
		t.Errorf("String() = %q, want %q", c.String(), "#ff8000")
	}
	if err := c.Set("#12"); err == nil {
		t.Error("expected an error for a short hex color")
	}
}
