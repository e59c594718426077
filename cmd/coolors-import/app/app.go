package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roman-kulish/chromatica/internal/colormap"
	"github.com/roman-kulish/chromatica/internal/palette"
)

// Run converts a coolors.co XML palette into a colormap JSON document.
// stdin and stdout are used when the config names no files.
func Run(config *Config, stdin io.Reader, stdout io.Writer, logger *slog.Logger) (err error) {
	in := stdin
	if config.InputFile != "" {
		f, err := os.Open(config.InputFile)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()
		in = f
	}

	swatches, err := palette.ParseCoolors(in)
	if err != nil {
		return err
	}

	cm, err := palette.ToColorMap(swatches, config.Name)
	if err != nil {
		return err
	}

	out := stdout
	if config.OutputFile != "" {
		var f *os.File
		if f, err = os.Create(config.OutputFile); err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cErr := f.Close(); cErr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cErr)
			}
		}()
		out = f
	}

	if err = write(out, cm, config.Pretty); err != nil {
		return fmt.Errorf("writing colormap: %w", err)
	}

	if config.OutputFile != "" {
		logger.Info("created colormap",
			slog.String("name", cm.Name()),
			slog.Int("colors", len(swatches)),
			slog.String("path", config.OutputFile))
	}
	return nil
}

func write(w io.Writer, cm *colormap.ColorMap, pretty bool) error {
	if pretty {
		return colormap.Encode(w, cm)
	}

	data, err := json.Marshal(cm)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
