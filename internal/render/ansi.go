package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/roman-kulish/chromatica/internal/colormap"
)

const ansiReset = "\x1b[0m"

// ANSIBar returns a truecolor terminal gradient of width cells.
func ANSIBar(cm *colormap.ColorMap, width int) string {
	if width < 1 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < width; i++ {
		t := 0.0
		if width > 1 {
			t = float64(i) / float64(width-1)
		}
		sb.WriteString(background(cm.Color(t)))
		sb.WriteByte(' ')
	}
	sb.WriteString(ansiReset)
	return sb.String()
}

// DescribeStops writes one line per stop: a color chip, the index,
// position, RGB and hex value, and a rough color description.
func DescribeStops(w io.Writer, cm *colormap.ColorMap) error {
	for i, s := range cm.Stops() {
		c := s.Color
		line := fmt.Sprintf("  %s    %s [%2d] pos=%.3f  RGB(%3d,%3d,%3d)  %s  %s",
			background(c), ansiReset, i, s.Position, c.R, c.G, c.B, c.Hex(), DescribeColor(c))
		if s.Name != "" {
			line += "  (" + s.Name + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing stop %d: %w", i, err)
		}
	}
	return nil
}

func background(c colormap.Color) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// DescribeColor names a color in plain words, e.g. "dark vivid red".
func DescribeColor(c colormap.Color) string {
	r, g, b := int(c.R), int(c.G), int(c.B)
	brightness := (r + g + b) / 3
	hi := max(r, g, b)
	chroma := hi - min(r, g, b)

	if chroma < 20 {
		switch {
		case brightness < 20:
			return "near-black"
		case brightness > 235:
			return "near-white"
		default:
			return fmt.Sprintf("gray (brightness: %d)", brightness)
		}
	}

	var sb strings.Builder
	switch {
	case brightness < 80:
		sb.WriteString("dark ")
	case brightness > 180:
		sb.WriteString("bright ")
	}

	saturation := chroma * 100 / hi
	switch {
	case saturation < 30:
		sb.WriteString("pale ")
	case saturation > 80:
		sb.WriteString("vivid ")
	}

	switch {
	case r > 200 && g < 100 && b < 100:
		sb.WriteString("red")
	case r > 200 && g > 100 && b < 80:
		sb.WriteString("orange/yellow")
	case g > 200 && r < 100 && b < 100:
		sb.WriteString("green")
	case b > 200 && r < 100 && g < 150:
		sb.WriteString("blue")
	case b > 150 && g > 150 && r < 100:
		sb.WriteString("cyan/teal")
	case r > 150 && b > 150 && g < 100:
		sb.WriteString("magenta/purple")
	case r > 150 && g > 150 && b < 100:
		sb.WriteString("yellow")
	case r > 150 && g > 100 && b > 150:
		sb.WriteString("lavender/pink")
	case r > 100 && g > 50 && b < 50:
		sb.WriteString("brown/copper")
	default:
		sb.WriteString(dominantChannel(r, g, b) + " tint")
	}
	return sb.String()
}

func dominantChannel(r, g, b int) string {
	switch {
	case r >= g && r >= b:
		return "red"
	case g >= b:
		return "green"
	default:
		return "blue"
	}
}
