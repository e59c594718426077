// Package render draws colormaps: labelled swatch sheets, escape-time
// fractals and terminal previews.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

const (
	dpi = 72.0

	defaultFontSize  = 14.0
	defaultBarWidth  = 720
	defaultBarHeight = 40
	defaultPadding   = 16
	defaultSpacing   = 12
	markerRadius     = 4
)

// ErrNoColorMaps is returned when asked to render an empty sheet.
var ErrNoColorMaps = errors.New("no colormaps to render")

var borderColor = color.Gray{Y: 128}

// SwatchConfig holds the layout of a swatch sheet
type SwatchConfig struct {
	BarWidth  int     // Width of each gradient bar in pixels
	BarHeight int     // Height of each gradient bar in pixels
	Padding   int     // White space around the sheet
	Spacing   int     // Vertical space between entries
	FontSize  float64 // Label font size in points

	// ShowStops marks stop positions with white circles
	ShowStops bool
}

// SwatchRenderer draws one labelled gradient bar per colormap.
type SwatchRenderer struct {
	config SwatchConfig
}

// NewSwatchRenderer creates a renderer, filling zero values with defaults.
func NewSwatchRenderer(config SwatchConfig) *SwatchRenderer {
	if config.BarWidth == 0 {
		config.BarWidth = defaultBarWidth
	}
	if config.BarHeight == 0 {
		config.BarHeight = defaultBarHeight
	}
	if config.Padding == 0 {
		config.Padding = defaultPadding
	}
	if config.Spacing == 0 {
		config.Spacing = defaultSpacing
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	return &SwatchRenderer{config: config}
}

// Render draws the sheet. Bars are sampled from a LUT as wide as the bar,
// so every pixel column is one table entry.
func (r *SwatchRenderer) Render(maps []*colormap.ColorMap) (*image.RGBA, error) {
	if len(maps) == 0 {
		return nil, ErrNoColorMaps
	}

	lbl, err := newLabeler(r.config.FontSize)
	if err != nil {
		return nil, fmt.Errorf("creating labeler: %w", err)
	}
	defer lbl.Close()

	cfg := r.config
	rowHeight := lbl.lineHeight() + cfg.BarHeight + cfg.Spacing
	width := cfg.BarWidth + 2*cfg.Padding
	height := 2*cfg.Padding + len(maps)*rowHeight + lbl.lineHeight()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	lbl.attach(img)

	var stops int
	for i, cm := range maps {
		top := cfg.Padding + i*rowHeight

		label := fmt.Sprintf("%s (%d stops)", cm.Name(), cm.Len())
		if err = lbl.drawText(label, cfg.Padding, top); err != nil {
			return nil, fmt.Errorf("drawing label for %q: %w", cm.Name(), err)
		}

		if span := stopSpan(cm); span != "" {
			if err = lbl.drawText(span, cfg.Padding+cfg.BarWidth-lbl.measure(span), top); err != nil {
				return nil, fmt.Errorf("drawing stop span for %q: %w", cm.Name(), err)
			}
		}

		bar := image.Rect(cfg.Padding, top+lbl.lineHeight(), cfg.Padding+cfg.BarWidth, top+lbl.lineHeight()+cfg.BarHeight)
		if err = r.drawBar(img, bar, cm); err != nil {
			return nil, fmt.Errorf("drawing bar for %q: %w", cm.Name(), err)
		}
		stops += cm.Len()
	}

	info := fmt.Sprintf("%s colormaps, %s stops, %s px", humanize.Comma(int64(len(maps))),
		humanize.Comma(int64(stops)), humanize.Comma(int64(width*height)))
	if err = lbl.drawText(info, cfg.Padding, height-cfg.Padding-lbl.lineHeight()); err != nil {
		return nil, fmt.Errorf("drawing info text: %w", err)
	}

	return img, nil
}

func (r *SwatchRenderer) drawBar(img *image.RGBA, bar image.Rectangle, cm *colormap.ColorMap) error {
	size := bar.Dx()
	if size < 2 {
		size = 2
	}
	lut, err := cm.BuildLUT(size)
	if err != nil {
		return err
	}

	for x := bar.Min.X; x < bar.Max.X; x++ {
		c := lut.At(x - bar.Min.X)
		for y := bar.Min.Y; y < bar.Max.Y; y++ {
			img.Set(x, y, c)
		}
	}

	strokeRect(img, bar, borderColor)

	if !r.config.ShowStops {
		return nil
	}

	cy := bar.Min.Y + bar.Dy()/2
	for _, s := range cm.Stops() {
		cx := bar.Min.X + int(math.Round(s.Position*float64(bar.Dx()-1)))
		fillCircle(img, cx, cy, markerRadius+1, borderColor)
		fillCircle(img, cx, cy, markerRadius, color.White)
	}
	return nil
}

// stopSpan describes the end colors, e.g. "#000000 .. #ffffff".
func stopSpan(cm *colormap.ColorMap) string {
	stops := cm.Stops()
	if len(stops) == 0 {
		return ""
	}
	return stops[0].Color.Hex() + " .. " + stops[len(stops)-1].Color.Hex()
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// labeler draws text with the embedded Go font.
type labeler struct {
	context  *freetype.Context
	fontFace font.Face
}

func newLabeler(size float64) (*labeler, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &labeler{
		context: ctx,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    size,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (l *labeler) Close() error {
	if l.fontFace != nil {
		return l.fontFace.Close()
	}
	return nil
}

func (l *labeler) attach(img *image.RGBA) {
	l.context.SetClip(img.Bounds())
	l.context.SetDst(img)
}

func (l *labeler) lineHeight() int {
	metrics := l.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round() + 4
}

// drawText draws s with the top of its line box at y.
func (l *labeler) drawText(s string, x, y int) error {
	pt := freetype.Pt(x, y+l.fontFace.Metrics().Ascent.Round())
	_, err := l.context.DrawString(s, pt)
	return err
}

// measure returns the advance width of s in pixels.
func (l *labeler) measure(s string) int {
	return font.MeasureString(l.fontFace, s).Round()
}
