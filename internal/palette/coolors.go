package palette

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

// coolorsPalette is the XML document exported by coolors.co:
//
//	<palette>
//	  <color name="Prussian blue" hex="023047" r="2" g="48" b="71" />
//	</palette>
type coolorsPalette struct {
	XMLName xml.Name       `xml:"palette"`
	Colors  []coolorsColor `xml:"color"`
}

type coolorsColor struct {
	Name string  `xml:"name,attr"`
	Hex  string  `xml:"hex,attr"`
	R    *string `xml:"r,attr"`
	G    *string `xml:"g,attr"`
	B    *string `xml:"b,attr"`
}

// ParseCoolors reads a coolors.co XML palette.
// The r, g and b attributes are used when all three are present; otherwise
// the color comes from the hex attribute.
func ParseCoolors(r io.Reader) ([]Swatch, error) {
	var doc coolorsPalette
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing palette XML: %w", err)
	}
	if len(doc.Colors) == 0 {
		return nil, ErrNoColors
	}

	swatches := make([]Swatch, len(doc.Colors))
	for i, c := range doc.Colors {
		color, err := c.color()
		if err != nil {
			return nil, fmt.Errorf("parsing palette color %d (%q): %w", i, c.Name, err)
		}
		swatches[i] = Swatch{Name: c.Name, Color: color}
	}
	return swatches, nil
}

func (c *coolorsColor) color() (colormap.Color, error) {
	if c.R != nil && c.G != nil && c.B != nil {
		var values [3]uint8
		for i, s := range []*string{c.R, c.G, c.B} {
			v, err := strconv.ParseUint(*s, 10, 8)
			if err != nil {
				return colormap.Color{}, fmt.Errorf("parsing channel %q: %w", *s, err)
			}
			values[i] = uint8(v)
		}
		return colormap.NewColor(values[0], values[1], values[2]), nil
	}

	if c.Hex == "" {
		return colormap.Color{}, errors.New("missing hex and channel attributes")
	}
	return colormap.ParseHex(c.Hex)
}
