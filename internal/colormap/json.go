package colormap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

type jsonColor struct {
	R json.RawMessage `json:"r"`
	G json.RawMessage `json:"g"`
	B json.RawMessage `json:"b"`
}

type jsonStop struct {
	Position *float64  `json:"position"`
	Color    jsonColor `json:"color"`
	Name     string    `json:"name,omitempty"`
}

type jsonColorMap struct {
	Name  string     `json:"name"`
	Stops []jsonStop `json:"stops"`
}

type encodedStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
	Name     string  `json:"name,omitempty"`
}

type encodedColorMap struct {
	Name  string        `json:"name"`
	Stops []encodedStop `json:"stops"`
}

// Parse decodes a colormap document. Stops are sorted, not rejected, when
// out of order.
func Parse(data []byte) (*ColorMap, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a colormap document from r.
func Decode(r io.Reader) (*ColorMap, error) {
	var doc jsonColorMap

	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{Stop: -1, Err: err}
	}

	return doc.toColorMap()
}

// Encode writes cm to w as an indented document.
func Encode(w io.Writer, cm *ColorMap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cm); err != nil {
		return fmt.Errorf("encoding colormap %q: %w", cm.name, err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (cm *ColorMap) MarshalJSON() ([]byte, error) {
	doc := encodedColorMap{
		Name:  cm.name,
		Stops: make([]encodedStop, len(cm.stops)),
	}
	for i, s := range cm.stops {
		doc.Stops[i] = encodedStop{Position: s.Position, Color: s.Color, Name: s.Name}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler with the same validation as Decode.
func (cm *ColorMap) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*cm = *parsed
	return nil
}

func (doc *jsonColorMap) toColorMap() (*ColorMap, error) {
	if len(doc.Stops) < 2 {
		return nil, &DecodeError{Stop: -1, Err: fmt.Errorf("%w: got %d", ErrInsufficientStops, len(doc.Stops))}
	}

	stops := make([]ColorStop, len(doc.Stops))
	for i, js := range doc.Stops {
		stop, err := js.toColorStop()
		if err != nil {
			return nil, &DecodeError{Stop: i, Err: err}
		}
		stops[i] = stop
	}

	return NewWithStops(doc.Name, stops...)
}

func (js *jsonStop) toColorStop() (ColorStop, error) {
	if js.Position == nil {
		return ColorStop{}, errors.New("missing position")
	}
	p := *js.Position
	if math.IsNaN(p) || p < 0 || p > 1 {
		return ColorStop{}, fmt.Errorf("position %v outside [0,1]", p)
	}

	c, err := js.Color.toColor()
	if err != nil {
		return ColorStop{}, err
	}

	return ColorStop{Position: p, Color: c, Name: js.Name}, nil
}

func (jc *jsonColor) toColor() (Color, error) {
	channels := []struct {
		name string
		raw  json.RawMessage
	}{
		{"r", jc.R},
		{"g", jc.G},
		{"b", jc.B},
	}

	var values [3]uint8
	for i, ch := range channels {
		v, err := parseChannel(ch.raw)
		if err != nil {
			return Color{}, fmt.Errorf("channel %s: %w", ch.name, err)
		}
		values[i] = v
	}

	return Color{R: values[0], G: values[1], B: values[2]}, nil
}

// parseChannel accepts only a bare JSON integer; quoted numbers are rejected.
func parseChannel(raw json.RawMessage) (uint8, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("missing value")
	}
	if raw[0] == '"' {
		return 0, fmt.Errorf("not an integer: %s", raw)
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %s", raw)
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("value %d outside [0,255]", v)
	}
	return uint8(v), nil
}
