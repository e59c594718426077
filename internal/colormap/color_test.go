package colormap

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	testCases := []struct {
		in   string
		want Color
	}{
		{"#F00", Color{255, 0, 0}},
		{"#ff0000", Color{255, 0, 0}},
		{"ff0000", Color{255, 0, 0}},
		{"C8F", Color{0xcc, 0x88, 0xff}},
		{"#FF5733", Color{0xff, 0x57, 0x33}},
		{"#00fF00", Color{0, 255, 0}},
		{"000", Black},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseHex(tc.in)
			if err != nil {
				t.Fatalf("ParseHex(%q) failed: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseHex_Errors(t *testing.T) {
	testCases := []struct {
		in   string
		want error
	}{
		{"", ErrInvalidFormat},
		{"#", ErrInvalidFormat},
		{"#ff00", ErrInvalidFormat},
		{"#ff00000", ErrInvalidFormat},
		{"##f00", ErrInvalidFormat},
		{"#gg0000", ErrInvalidDigit},
		{"#f0z", ErrInvalidDigit},
		{" f0", ErrInvalidDigit},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParseHex(tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseHex(%q) error = %v, want %v", tc.in, err, tc.want)
			}

			var pe *ParseError
			if !errors.As(err, &pe) || pe.Input != tc.in {
				t.Errorf("expected *ParseError carrying input %q, got %#v", tc.in, err)
			}
		})
	}
}

func TestHex_RoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 5 {
				c := NewColor(uint8(r), uint8(g), uint8(b))
				got, err := ParseHex(c.Hex())
				if err != nil {
					t.Fatalf("ParseHex(%q) failed: %v", c.Hex(), err)
				}
				if got != c {
					t.Fatalf("round trip of %v through %q gave %v", c, c.Hex(), got)
				}
			}
		}
	}
}

func TestHex_Format(t *testing.T) {
	if got := NewColor(255, 165, 0).Hex(); got != "#ffa500" {
		t.Errorf("Hex() = %q, want #ffa500", got)
	}
	if got := NewColor(1, 2, 3).Hex(); got != "#010203" {
		t.Errorf("Hex() = %q, want zero padded #010203", got)
	}
}

func TestFromHSV(t *testing.T) {
	testCases := []struct {
		name    string
		h, s, v float64
		want    Color
	}{
		{"red", 0, 1, 1, Color{255, 0, 0}},
		{"green", 120, 1, 1, Color{0, 255, 0}},
		{"blue", 240, 1, 1, Color{0, 0, 255}},
		{"yellow", 60, 1, 1, Color{255, 255, 0}},
		{"hue wraps at 360", 360, 1, 1, Color{255, 0, 0}},
		{"hue wraps above 360", 480, 1, 1, Color{0, 255, 0}},
		{"negative hue wraps", -120, 1, 1, Color{0, 0, 255}},
		{"gray rounds", 0, 0, 0.5, Color{128, 128, 128}},
		{"black", 200, 1, 0, Black},
		{"white", 0, 0, 1, White},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromHSV(tc.h, tc.s, tc.v); got != tc.want {
				t.Errorf("FromHSV(%v, %v, %v) = %v, want %v", tc.h, tc.s, tc.v, got, tc.want)
			}
		})
	}
}

func TestHSV_Achromatic(t *testing.T) {
	for _, c := range []Color{Black, White, {77, 77, 77}} {
		h, s, _ := c.HSV()
		if h != 0 || s != 0 {
			t.Errorf("%v.HSV() = (%v, %v, _), want hue and saturation 0", c, h, s)
		}
	}
}

func TestHSV_RoundTrip(t *testing.T) {
	within := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -1 && d <= 1
	}

	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				c := NewColor(uint8(r), uint8(g), uint8(b))
				got := FromHSV(c.HSV())
				if !within(got.R, c.R) || !within(got.G, c.G) || !within(got.B, c.B) {
					t.Fatalf("HSV round trip of %v gave %v", c, got)
				}
			}
		}
	}
}

func TestLerp(t *testing.T) {
	red := NewColor(255, 0, 0)
	blue := NewColor(0, 0, 255)

	testCases := []struct {
		t    float64
		want Color
	}{
		{0, red},
		{1, blue},
		{0.5, Color{128, 0, 128}},
		{0.25, Color{191, 0, 64}},
	}

	for _, tc := range testCases {
		if got := red.Lerp(blue, tc.t); got != tc.want {
			t.Errorf("Lerp(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestColor_ImplementsImageColor(t *testing.T) {
	var c color.Color = NewColor(0x12, 0x34, 0x56)

	got := color.NRGBAModel.Convert(c).(color.NRGBA)
	want := color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	if got != want {
		t.Errorf("NRGBA conversion = %v, want %v", got, want)
	}
}
