package app

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/chromatica/internal/colormap"
	"github.com/roman-kulish/chromatica/internal/palette"
	"github.com/roman-kulish/chromatica/internal/storage"
)

const paletteXML = `<palette>
  <color name="Night" hex="0a0a0a" r="10" g="10" b="10" />
  <color name="Ember" hex="c1440e" r="193" g="68" b="14" />
  <color name="Sand" hex="f2d0a4" r="242" g="208" b="164" />
</palette>`

func TestRun_Stdout(t *testing.T) {
	testCases := []struct {
		name      string
		pretty    bool
		wantLines int
	}{
		{name: "compact", pretty: false, wantLines: 1},
		{name: "pretty", pretty: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Run(&Config{Pretty: tc.pretty}, strings.NewReader(paletteXML), &out, slog.New(slog.DiscardHandler))
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			lines := strings.Count(out.String(), "\n")
			if tc.wantLines > 0 && lines != tc.wantLines {
				t.Errorf("output has %d lines, want %d", lines, tc.wantLines)
			}
			if tc.pretty && lines < 10 {
				t.Errorf("pretty output has only %d lines", lines)
			}

			cm, err := colormap.Parse(out.Bytes())
			if err != nil {
				t.Fatalf("output does not parse: %v", err)
			}
			if cm.Name() != "Night Sand" || cm.Len() != 3 {
				t.Errorf("got %q with %d stops, want %q with 3", cm.Name(), cm.Len(), "Night Sand")
			}
			if got := cm.Stops()[1].Position; got != 0.5 {
				t.Errorf("middle position = %v, want 0.5", got)
			}
		})
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "palette.xml")
	output := filepath.Join(dir, "out.json")
	if err := os.WriteFile(input, []byte(paletteXML), 0o644); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	var stdout bytes.Buffer
	config := &Config{InputFile: input, OutputFile: output, Name: "Campfire"}
	if err := Run(config, strings.NewReader(""), &stdout, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("wrote %d bytes to stdout with an output file set", stdout.Len())
	}

	cm, err := storage.LoadFile(output)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cm.Name() != "Campfire" {
		t.Errorf("Name() = %q, want %q", cm.Name(), "Campfire")
	}
}

func TestRun_Errors(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	err := Run(&Config{}, strings.NewReader("<palette/>"), &bytes.Buffer{}, logger)
	if !errors.Is(err, palette.ErrNoColors) {
		t.Errorf("empty palette error = %v, want %v", err, palette.ErrNoColors)
	}

	err = Run(&Config{InputFile: filepath.Join(t.TempDir(), "missing.xml")}, nil, &bytes.Buffer{}, logger)
	if err == nil {
		t.Error("expected an error for a missing input file")
	}
}
