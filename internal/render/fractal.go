package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

const (
	defaultFractalWidth   = 800
	defaultFractalHeight  = 600
	defaultMaxIterations  = 500
	defaultLUTSize        = 1024
	defaultZoom           = 1.0
	defaultCenterX        = -0.5
	escapeRadiusSquared   = 4.0
	planeHeightAtUnitZoom = 2.5
)

// ErrInvalidSize is returned for non-positive image dimensions.
var ErrInvalidSize = errors.New("image dimensions must be positive")

// FractalConfig describes the region of the Mandelbrot set to draw and how
// escape times are colored.
type FractalConfig struct {
	Width  int
	Height int

	// View center in the complex plane and magnification. Zoom 1 shows a
	// plane 2.5 units tall.
	CenterX float64
	CenterY float64
	Zoom    float64

	MaxIterations uint32

	// Cycle repeats the gradient every Mapper.Period iterations.
	Cycle bool

	// Mapper controls the interior color, period and log scaling. Its LUT
	// is replaced with one built from the colormap being rendered.
	Mapper colormap.IterationMapper

	// LUTSize is the number of precomputed gradient samples.
	LUTSize int

	// Workers bounds the rows rendered concurrently. Zero uses GOMAXPROCS.
	Workers int
}

// FractalRenderer draws escape-time images colored by a colormap.
type FractalRenderer struct {
	config FractalConfig
	logger *slog.Logger
}

type FractalOption func(*FractalRenderer)

// WithLogger sets the logger used to report progress.
func WithLogger(logger *slog.Logger) FractalOption {
	return func(r *FractalRenderer) {
		r.logger = logger
	}
}

// NewFractalRenderer creates a renderer, filling zero values with defaults.
// A zero CenterX together with a zero CenterY centers the classic view.
func NewFractalRenderer(config FractalConfig, opts ...FractalOption) *FractalRenderer {
	if config.Width == 0 {
		config.Width = defaultFractalWidth
	}
	if config.Height == 0 {
		config.Height = defaultFractalHeight
	}
	if config.Zoom == 0 {
		config.Zoom = defaultZoom
	}
	if config.CenterX == 0 && config.CenterY == 0 {
		config.CenterX = defaultCenterX
	}
	if config.MaxIterations == 0 {
		config.MaxIterations = defaultMaxIterations
	}
	if config.LUTSize == 0 {
		config.LUTSize = defaultLUTSize
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}

	r := &FractalRenderer{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective configuration.
func (r *FractalRenderer) Config() FractalConfig {
	return r.config
}

// Render draws the configured view using cm. Rendering stops early with the
// context error when ctx is cancelled.
func (r *FractalRenderer) Render(ctx context.Context, cm *colormap.ColorMap) (*image.RGBA, error) {
	cfg := r.config
	if cfg.Width < 0 || cfg.Height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}

	lut, err := cm.BuildLUT(cfg.LUTSize)
	if err != nil {
		return nil, fmt.Errorf("building lookup table: %w", err)
	}

	mapper := cfg.Mapper
	mapper.LUT = lut

	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	scale := planeHeightAtUnitZoom / cfg.Zoom / float64(cfg.Height)
	left := cfg.CenterX - scale*float64(cfg.Width)/2
	top := cfg.CenterY + scale*float64(cfg.Height)/2

	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for y := 0; y < cfg.Height; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ci := top - float64(y)*scale
			offset := y * img.Stride
			for x := 0; x < cfg.Width; x++ {
				cr := left + float64(x)*scale
				c := mapper.Color(escapeTime(cr, ci, cfg.MaxIterations), cfg.MaxIterations, cm, cfg.Cycle)

				i := offset + x*4
				img.Pix[i+0] = c.R
				img.Pix[i+1] = c.G
				img.Pix[i+2] = c.B
				img.Pix[i+3] = 0xff
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("rendering fractal: %w", err)
	}

	r.logger.Debug("rendered fractal",
		slog.String("colormap", cm.Name()),
		slog.String("pixels", humanize.Comma(int64(cfg.Width*cfg.Height))),
		slog.Duration("elapsed", time.Since(start)),
	)

	return img, nil
}

// escapeTime returns the iterations taken by z -> z^2 + c to leave the
// radius 2 disc, or maxIterations when it never does.
func escapeTime(cr, ci float64, maxIterations uint32) uint32 {
	var zr, zi float64
	for i := uint32(0); i < maxIterations; i++ {
		zr2, zi2 := zr*zr, zi*zi
		if zr2+zi2 > escapeRadiusSquared {
			return i
		}
		zi = 2*zr*zi + ci
		zr = zr2 - zi2 + cr
	}
	return maxIterations
}
