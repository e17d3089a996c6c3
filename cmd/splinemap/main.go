package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"splinemap/internal/config"
	"splinemap/internal/curve"
	"splinemap/internal/geom"
	"splinemap/internal/layer"
	"splinemap/internal/palette"
	"splinemap/internal/tui"
)

func main() {
	err := run(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}

// run parses args and starts the export or the TUI. It returns instead of
// exiting so deferred cleanup, such as closing the log file, always runs.
func run(args []string) error {
	fs := flag.NewFlagSet("splinemap", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "TOML configuration file")
		base       = fs.String("base", "", "base collection: http(s) URL, file:// URL or .geojson path")
		arrow      = fs.String("arrow", "", "arrow position: start, center or end")
		noArrows   = fs.Bool("no-arrows", false, "do not place arrows")
		iconName   = fs.String("icon", "", "arrow icon name written to the symbol layer")
		iconURL    = fs.String("icon-url", "", "arrow icon image to load (URL or path)")
		density    = fs.Int("density", 0, "samples per segment")
		alpha      = fs.Float64("alpha", -1, "Catmull-Rom alpha in [0, 1]")
		exportPath = fs.String("export", "", "write the merged collection to FILE (- for stdout) and exit")
		stylePath  = fs.String("style", "", "with -export, also write the layer style to FILE")
		logFile    = fs.String("log", "", "log to FILE")
		debug      = fs.Bool("debug", false, "debug logging")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [flags] [waypoints]\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base":
			cfg.Base = *base
		case "arrow":
			cfg.ArrowPosition, flagErr = curve.ParsePosition(*arrow)
		case "no-arrows":
			cfg.ShowArrows = !*noArrows
		case "icon":
			cfg.ArrowIcon = *iconName
		case "icon-url":
			cfg.IconURL = *iconURL
		case "density":
			cfg.ResampleDensity = *density
		case "alpha":
			cfg.Alpha = *alpha
		case "log":
			cfg.LogFile = *logFile
		case "debug":
			cfg.Debug = *debug
		}
	})
	if flagErr != nil {
		return flagErr
	}
	if fs.NArg() > 0 {
		cfg.Waypoints = fs.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if *exportPath != "" {
		setupLogging(os.Stderr, level)
		return export(cfg, *exportPath, *stylePath)
	}

	// the terminal belongs to the TUI: log to a file or nowhere
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "splinemap")
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	setupLogging(logOut, level)

	m := tui.New(cfg, nil, nil)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func setupLogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// export composes once, fetching the base inline, and writes the result.
func export(cfg config.Config, out, styleOut string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var segs []geom.Segment
	if cfg.Waypoints != "" {
		wps, err := geom.LoadWaypoints(cfg.Waypoints)
		if err != nil {
			return err
		}
		segs = layer.WaypointSegments(wps, palette.Sequence(1))
	}
	in := layer.Inputs{Base: layer.RemoteBase(cfg.Base), Segments: segs, Config: cfg.Layer()}
	fc, err := layer.New(nil).Resolve(ctx, in)
	if err != nil {
		return err
	}
	slog.Info("composed", "segments", len(segs), "features", len(fc.Features), "base", cfg.Base)
	if err := writeJSON(out, fc); err != nil {
		return err
	}
	if styleOut != "" {
		return writeJSON(styleOut, layer.StyleFor(cfg.Layer()))
	}
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
