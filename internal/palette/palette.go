// Package palette imports color palettes exported by palette generators
// and turns them into evenly spread colormaps.
package palette

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/floats"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

// ErrNoColors is returned when a palette holds no colors.
var ErrNoColors = errors.New("palette has no colors")

// positionPrecision is the number of decimals kept for generated stop positions.
const positionPrecision = 4

// Swatch is a single named palette color.
type Swatch struct {
	Name  string
	Color colormap.Color
}

// ToColorMap spreads swatches evenly over [0,1], first swatch at 0 and last at 1.
// An empty name is derived from the first and last swatch names. A single
// swatch produces a solid colormap.
func ToColorMap(swatches []Swatch, name string) (*colormap.ColorMap, error) {
	if len(swatches) == 0 {
		return nil, ErrNoColors
	}

	if name == "" {
		name = defaultName(swatches)
	}

	if len(swatches) == 1 {
		s := swatches[0]
		return colormap.NewWithStops(name,
			colormap.NewNamedColorStop(0, s.Color, s.Name),
			colormap.NewNamedColorStop(1, s.Color, s.Name),
		)
	}

	positions := floats.Span(make([]float64, len(swatches)), 0, 1)

	stops := make([]colormap.ColorStop, len(swatches))
	for i, s := range swatches {
		stops[i] = colormap.NewNamedColorStop(roundPosition(positions[i]), s.Color, s.Name)
	}

	cm, err := colormap.NewWithStops(name, stops...)
	if err != nil {
		return nil, fmt.Errorf("building colormap %q: %w", name, err)
	}
	return cm, nil
}

func defaultName(swatches []Swatch) string {
	first := strings.TrimSpace(swatches[0].Name)
	last := strings.TrimSpace(swatches[len(swatches)-1].Name)

	name := first
	if len(swatches) > 1 {
		name = strings.TrimSpace(first + " " + last)
	}
	if name == "" {
		return "Imported Palette"
	}
	return name
}

func roundPosition(p float64) float64 {
	scale := math.Pow10(positionPrecision)
	return math.Round(p*scale) / scale
}

// ParseColor accepts a hex color (see colormap.ParseHex) or an SVG 1.1
// color keyword such as "steelblue".
func ParseColor(s string) (colormap.Color, error) {
	c, err := colormap.ParseHex(s)
	if err == nil {
		return c, nil
	}

	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]; ok {
		return colormap.NewColor(named.R, named.G, named.B), nil
	}
	return colormap.Color{}, err
}
