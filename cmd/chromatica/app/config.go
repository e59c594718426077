package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/chromatica/internal/colormap"
	"github.com/roman-kulish/chromatica/internal/palette"
	"github.com/roman-kulish/chromatica/internal/render"
)

const (
	StorageBackendFile   = "file"
	StorageBackendSqlite = "sqlite"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Storage  StorageConfig `yaml:"storage"`
	Render   RenderConfig  `yaml:"render"`
	Fractal  FractalConfig `yaml:"fractal"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel LogLevel `yaml:"logLevel"`
}

// StorageConfig selects where custom colormaps are kept.
// An empty path uses the per-user config directory.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// RenderConfig holds swatch sheet settings
type RenderConfig struct {
	Format    string  `yaml:"format"`
	BarWidth  int     `yaml:"barWidth"`
	BarHeight int     `yaml:"barHeight"`
	FontSize  float64 `yaml:"fontSize"`
	ShowStops bool    `yaml:"showStops"`
}

// FractalConfig holds escape-time rendering settings
type FractalConfig struct {
	Colormap      string   `yaml:"colormap"`
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	CenterX       float64  `yaml:"centerX"`
	CenterY       float64  `yaml:"centerY"`
	Zoom          float64  `yaml:"zoom"`
	MaxIterations uint32   `yaml:"maxIterations"`
	Cycle         bool     `yaml:"cycle"`
	Period        uint32   `yaml:"period"`
	LogScale      bool     `yaml:"logScale"`
	Interior      HexColor `yaml:"interior"`
	LUTSize       int      `yaml:"lutSize"`
}

// NewConfig returns the configuration used when no file is given.
func NewConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: LogLevel(slog.LevelInfo)},
		Storage:  StorageConfig{Backend: StorageBackendFile},
		Render: RenderConfig{
			Format:    render.FormatPNG,
			BarWidth:  720,
			BarHeight: 40,
			FontSize:  14,
			ShowStops: true,
		},
		Fractal: FractalConfig{
			Colormap:      "Default",
			Width:         800,
			Height:        600,
			CenterX:       -0.5,
			Zoom:          1,
			MaxIterations: 500,
			Period:        colormap.DefaultPeriod,
			Interior:      HexColor(colormap.Black),
			LUTSize:       1024,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	c := NewConfig()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := c.Fractal.Validate(); err != nil {
		return fmt.Errorf("fractal: %w", err)
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case StorageBackendFile:
	case StorageBackendSqlite:
		if c.Path == "" {
			return errors.New("sqlite backend requires a database path")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	return nil
}

func (c *RenderConfig) Validate() error {
	if !render.ValidFormat(c.Format) {
		return fmt.Errorf("invalid image format: %s", c.Format)
	}
	if c.BarWidth < 2 || c.BarHeight < 1 {
		return fmt.Errorf("invalid bar size: %dx%d", c.BarWidth, c.BarHeight)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("invalid font size: %v", c.FontSize)
	}
	return nil
}

func (c *FractalConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size: %dx%d", c.Width, c.Height)
	}
	if c.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive: %v", c.Zoom)
	}
	if c.MaxIterations == 0 {
		return errors.New("maxIterations must be positive")
	}
	if c.LUTSize < 2 {
		return fmt.Errorf("lutSize must be at least 2: %d", c.LUTSize)
	}
	return nil
}

// Mapper returns the iteration mapper described by the configuration.
func (c *FractalConfig) Mapper() colormap.IterationMapper {
	return colormap.IterationMapper{
		Interior: colormap.Color(c.Interior),
		Period:   c.Period,
		LogScale: c.LogScale,
	}
}

// LogLevel is a slog level written by name in YAML, e.g. "debug".
type LogLevel slog.Level

func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value.Value)); err != nil {
		return fmt.Errorf("app.LogLevel: failed to parse: %s", err)
	}

	*l = LogLevel(level)
	return nil
}

func (l LogLevel) MarshalYAML() (interface{}, error) {
	return slog.Level(l).String(), nil
}

func (l LogLevel) Level() slog.Level {
	return slog.Level(l)
}

// HexColor is a color written in YAML as hex or an SVG color keyword.
type HexColor colormap.Color

func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	return c.Set(value.Value)
}

// Set implements flag.Value.
func (c *HexColor) Set(s string) error {
	parsed, err := palette.ParseColor(s)
	if err != nil {
		return fmt.Errorf("app.HexColor: failed to parse: %s", err)
	}

	*c = HexColor(parsed)
	return nil
}

func (c HexColor) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c HexColor) String() string {
	return colormap.Color(c).Hex()
}
