package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/chromatica/internal/builtin"
	"github.com/roman-kulish/chromatica/internal/colormap"
	"github.com/roman-kulish/chromatica/internal/render"
	"github.com/roman-kulish/chromatica/internal/storage"
)

// ErrUsage is returned for unknown commands and invalid flags.
var ErrUsage = errors.New("invalid usage")

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"list":    {"list builtin and custom colormaps", runList},
	"show":    {"preview a colormap in the terminal", runShow},
	"swatch":  {"render a swatch sheet image", runSwatch},
	"fractal": {"render a Mandelbrot image colored by a colormap", runFractal},
	"dump":    {"write a colormap as JSON", runDump},
	"export":  {"copy a builtin colormap into custom storage", runExport},
	"save":    {"store a colormap JSON file as a custom colormap", runSave},
	"delete":  {"delete a custom colormap", runDelete},
}

type env struct {
	config  *Config
	catalog *storage.Catalog
	logger  *slog.Logger
	stdout  io.Writer
}

// Usage writes the list of commands to w.
func Usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: chromatica [-c config.yaml] <command> [flags]")
	fmt.Fprintln(w, "\nCommands:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, commands[name].summary)
	}
	_ = tw.Flush()
}

func Run(ctx context.Context, config *Config, args []string, logger *slog.Logger, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	store, err := openStore(config.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	e := &env{
		config:  config,
		catalog: storage.NewCatalog(store),
		logger:  logger.With(slog.String("command", args[0])),
		stdout:  stdout,
	}
	return cmd.run(ctx, e, args[1:])
}

func openStore(config StorageConfig) (storage.Store, error) {
	switch config.Backend {
	case StorageBackendSqlite:
		return storage.NewSqliteStore(config.Path), nil
	default:
		dir := config.Path
		if dir == "" {
			var err error
			if dir, err = storage.DefaultDirectory(); err != nil {
				return nil, err
			}
		}
		return storage.NewFileStore(dir)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %s", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	return nil
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("list")
	verbose := fs.Bool("v", false, "Show the number of stops of every colormap")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	infos, err := e.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("listing colormaps: %w", err)
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		kind := "custom"
		if info.Builtin {
			kind = "builtin"
		}

		if !*verbose {
			fmt.Fprintf(tw, "%s\t%s\n", info.Name, kind)
			continue
		}

		cm, err := e.catalog.Load(ctx, info.Name)
		if err != nil {
			e.logger.Warn("skipping unreadable colormap", slog.String("name", info.Name), slog.Any("error", err))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d stops\n", info.Name, kind, cm.Len())
	}
	return tw.Flush()
}

func runShow(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("show")
	name := fs.String("m", "", "Colormap name")
	reverse := fs.Bool("reverse", false, "Show the reversed colormap")
	width := fs.Int("width", 80, "Gradient width in terminal cells")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cm, err := loadColorMap(ctx, e, *name, *reverse)
	if err != nil {
		return err
	}

	fmt.Fprintln(e.stdout, cm.Name())
	fmt.Fprintln(e.stdout, render.ANSIBar(cm, *width))
	fmt.Fprintf(e.stdout, "%d color stops\n\n", cm.Len())
	return render.DescribeStops(e.stdout, cm)
}

func runSwatch(ctx context.Context, e *env, args []string) error {
	cfg := e.config.Render

	fs := newFlagSet("swatch")
	output := fs.String("o", "", "Path to the output file")
	format := fs.String("f", cfg.Format, "Output image format. [png, jpeg, bmp]")
	names := fs.String("m", "", "Comma separated colormap names (default: all)")
	fs.IntVar(&cfg.BarWidth, "width", cfg.BarWidth, "Bar width in pixels")
	fs.BoolVar(&cfg.ShowStops, "stops", cfg.ShowStops, "Mark stop positions")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("%w: output file is required", ErrUsage)
	}
	cfg.Format = strings.ToLower(*format)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrUsage, err)
	}

	maps, err := loadColorMaps(ctx, e, *names)
	if err != nil {
		return err
	}

	renderer := render.NewSwatchRenderer(render.SwatchConfig{
		BarWidth:  cfg.BarWidth,
		BarHeight: cfg.BarHeight,
		FontSize:  cfg.FontSize,
		ShowStops: cfg.ShowStops,
	})

	e.logger.Info("rendering swatch sheet",
		slog.Group("image",
			slog.String("destination", *output),
			slog.String("format", cfg.Format),
			slog.Int("colormaps", len(maps)),
		))

	img, err := renderer.Render(maps)
	if err != nil {
		return fmt.Errorf("rendering swatch sheet: %w", err)
	}
	return writeImage(e, *output, cfg.Format, img)
}

func runFractal(ctx context.Context, e *env, args []string) error {
	cfg := e.config.Fractal

	fs := newFlagSet("fractal")
	output := fs.String("o", "", "Path to the output file")
	format := fs.String("f", "", "Output image format. [png, jpeg, bmp] (default: from the file extension)")
	reverse := fs.Bool("reverse", false, "Use the reversed colormap")
	fs.StringVar(&cfg.Colormap, "m", cfg.Colormap, "Colormap name")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Image height in pixels")
	fs.Float64Var(&cfg.CenterX, "x", cfg.CenterX, "Real part of the view center")
	fs.Float64Var(&cfg.CenterY, "y", cfg.CenterY, "Imaginary part of the view center")
	fs.Float64Var(&cfg.Zoom, "zoom", cfg.Zoom, "Magnification")
	fs.Func("max-iter", "Iteration limit", func(s string) error {
		return parseUint32(s, &cfg.MaxIterations)
	})
	fs.BoolVar(&cfg.Cycle, "cycle", cfg.Cycle, "Repeat the gradient every period iterations")
	fs.Func("period", "Cycle period in iterations", func(s string) error {
		return parseUint32(s, &cfg.Period)
	})
	fs.BoolVar(&cfg.LogScale, "log", cfg.LogScale, "Compress positions logarithmically")
	fs.Var(&cfg.Interior, "interior", "Color of points inside the set, hex or a color keyword")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("%w: output file is required", ErrUsage)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrUsage, err)
	}

	imageFormat := strings.ToLower(*format)
	if imageFormat == "" {
		imageFormat = render.FormatFromPath(*output)
	}
	if !render.ValidFormat(imageFormat) {
		return fmt.Errorf("%w: invalid image format: %s", ErrUsage, imageFormat)
	}

	cm, err := loadColorMap(ctx, e, cfg.Colormap, *reverse)
	if err != nil {
		return err
	}

	renderer := render.NewFractalRenderer(render.FractalConfig{
		Width:         cfg.Width,
		Height:        cfg.Height,
		CenterX:       cfg.CenterX,
		CenterY:       cfg.CenterY,
		Zoom:          cfg.Zoom,
		MaxIterations: cfg.MaxIterations,
		Cycle:         cfg.Cycle,
		Mapper:        cfg.Mapper(),
		LUTSize:       cfg.LUTSize,
	}, render.WithLogger(e.logger))

	e.logger.Info("rendering fractal",
		slog.Group("image",
			slog.String("destination", *output),
			slog.String("format", imageFormat),
			slog.String("colormap", cm.Name()),
			slog.Int("width", cfg.Width),
			slog.Int("height", cfg.Height),
			slog.Uint64("maxIterations", uint64(cfg.MaxIterations)),
			slog.Bool("cycle", cfg.Cycle),
		))

	img, err := renderer.Render(ctx, cm)
	if err != nil {
		return err
	}
	return writeImage(e, *output, imageFormat, img)
}

func runDump(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("dump")
	name := fs.String("m", "", "Colormap name")
	output := fs.String("o", "", "Path to the output file (default: stdout)")
	reverse := fs.Bool("reverse", false, "Dump the reversed colormap")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cm, err := loadColorMap(ctx, e, *name, *reverse)
	if err != nil {
		return err
	}

	if *output == "" {
		return colormap.Encode(e.stdout, cm)
	}
	return writeFile(e, *output, func(w io.Writer) error {
		return colormap.Encode(w, cm)
	})
}

func runExport(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("export")
	name := fs.String("m", "", "Builtin colormap name")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: colormap name is required", ErrUsage)
	}

	cm, err := e.catalog.Export(ctx, *name)
	if err != nil {
		return err
	}

	e.logger.Info("exported colormap", slog.String("builtin", *name), slog.String("name", cm.Name()))
	fmt.Fprintln(e.stdout, cm.Name())
	return nil
}

func runSave(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("save")
	input := fs.String("i", "", "Colormap JSON file")
	rename := fs.String("n", "", "Store under this name instead of the one in the file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("%w: input file is required", ErrUsage)
	}

	cm, err := storage.LoadFile(*input)
	if err != nil {
		return err
	}
	if *rename != "" {
		cm.SetName(*rename)
	}
	if builtin.IsBuiltin(cm.Name()) {
		return fmt.Errorf("saving colormap %q: name is taken by a builtin colormap", cm.Name())
	}

	if err = e.catalog.Save(ctx, cm); err != nil {
		return err
	}

	e.logger.Info("saved colormap", slog.String("name", cm.Name()), slog.Int("stops", cm.Len()))
	return nil
}

func runDelete(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("delete")
	name := fs.String("m", "", "Custom colormap name")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: colormap name is required", ErrUsage)
	}

	if err := e.catalog.Delete(ctx, *name); err != nil {
		return err
	}

	e.logger.Info("deleted colormap", slog.String("name", *name))
	return nil
}

func loadColorMap(ctx context.Context, e *env, name string, reverse bool) (*colormap.ColorMap, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: colormap name is required", ErrUsage)
	}

	cm, err := e.catalog.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if reverse {
		cm = cm.Reversed()
	}
	return cm, nil
}

func loadColorMaps(ctx context.Context, e *env, names string) ([]*colormap.ColorMap, error) {
	var list []string
	if names == "" {
		infos, err := e.catalog.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing colormaps: %w", err)
		}
		for _, info := range infos {
			list = append(list, info.Name)
		}
	} else {
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				list = append(list, name)
			}
		}
	}

	maps := make([]*colormap.ColorMap, 0, len(list))
	for _, name := range list {
		cm, err := e.catalog.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		maps = append(maps, cm)
	}
	return maps, nil
}

func writeImage(e *env, path, format string, img image.Image) error {
	return writeFile(e, path, func(w io.Writer) error {
		return render.Encode(w, img, format)
	})
}

func writeFile(e *env, path string, write func(io.Writer) error) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cErr)
		}
	}()

	if err = write(out); err != nil {
		return err
	}

	if info, sErr := out.Stat(); sErr == nil {
		e.logger.Info("wrote output file", slog.String("path", path), slog.String("size", humanize.Bytes(uint64(info.Size()))))
	}
	return nil
}

func parseUint32(s string, dst *uint32) error {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*dst = uint32(v)
	return nil
}
