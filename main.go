// Sunglow paints an animated gradient whose glow follows the sun.
//
// Modes follow the screensaver convention:
//   - /s (or no args): fullscreen, exits on any key or mouse button
//   - /p [hwnd]: resizable preview window; T cycles palettes, Esc quits.
//     The host window handle is accepted and ignored: the preview opens as
//     its own top-level window instead of inside the caller's.
//   - /c: settings dialog for picking a palette
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/pflag"

	"sunglow/internal/backdrop"
	"sunglow/internal/celestial"
	"sunglow/internal/colorx"
	"sunglow/internal/config"
	"sunglow/internal/gpu/glcore"
	"sunglow/internal/logging"
	"sunglow/internal/loop"
	"sunglow/internal/platform"
	"sunglow/internal/window"
)

const (
	appName  = "sunglow"
	appTitle = "Sunglow"
)

type runMode int

const (
	modeScreensaver runMode = iota
	modeConfig
	modePreview
)

func (m runMode) String() string {
	switch m {
	case modeConfig:
		return "config"
	case modePreview:
		return "preview"
	}
	return "screensaver"
}

func init() {
	// GLFW and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

// detectMode reads the first mode switch among the positional arguments.
// "/c:1234" and "/p 1234" forms are accepted; the window handle is ignored.
func detectMode(args []string) runMode {
	for _, arg := range args {
		a := strings.ToLower(arg)
		switch {
		case a == "/s":
			return modeScreensaver
		case a == "/c" || strings.HasPrefix(a, "/c:"):
			return modeConfig
		case a == "/p" || strings.HasPrefix(a, "/p:"):
			return modePreview
		}
	}
	return modeScreensaver
}

// paletteForPhase picks the palette the auto theme shows at each time of day.
func paletteForPhase(p celestial.Phase) colorx.Palette {
	name := "amber"
	switch p {
	case celestial.PhaseNight:
		name = "night"
	case celestial.PhaseDawn:
		name = "rose"
	case celestial.PhaseSunset:
		name = "dusk"
	case celestial.PhaseDusk:
		name = "sea"
	}
	pal, _ := colorx.LookupPalette(name)
	return pal
}

func newLocator(cfg config.LocationConfig) celestial.Locator {
	switch cfg.Source {
	case "static":
		return celestial.Static{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
	case "geoclue":
		geo := celestial.NewGeoClue(cfg.DesktopID)
		return celestial.LocatorFunc(func(ctx context.Context) (celestial.Coordinates, error) {
			ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
			return geo.Locate(ctx)
		})
	}
	return celestial.Unavailable{}
}

// screen draws into the offscreen target and stretches it over the window.
type screen struct {
	*glcore.Target
	win *window.Window
}

func (s *screen) Present() {
	s.Blit(s.win.FramebufferSize())
	s.win.SwapBuffers()
}

func runBackdrop(mode runMode, cfg *config.Config, logger *slog.Logger) error {
	if mode == modeScreensaver {
		platform.DetachConsole(cfg.Log.Debug)
	}

	if err := window.Init(); err != nil {
		return err
	}
	defer window.Terminate()

	title := appTitle
	if cfg.Log.Debug && len(os.Args) > 1 {
		title = fmt.Sprintf("%s [%s]", appTitle, strings.Join(os.Args[1:], " "))
	}
	win, err := window.Open(window.Config{
		Title:       title,
		Fullscreen:  mode == modeScreensaver,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Resizable:   mode == modePreview,
		HideCursor:  mode == modeScreensaver && cfg.Window.HideCursor,
		ExitOnInput: mode == modeScreensaver,
		VSync:       cfg.Window.VSync,
	}, logger)
	if err != nil {
		return err
	}
	defer win.Destroy()

	if err := glcore.Init(); err != nil {
		return err
	}
	logger.Debug("OpenGL ready", "version", glcore.Version())

	target := &glcore.Target{}
	defer target.Release()

	l := loop.New()
	var r *backdrop.Renderer
	r, err = backdrop.New(l, win, glcore.NewDevice(), &screen{Target: target, win: win}, backdrop.Options{
		Palette:         cfg.Colors.Palette(),
		LerpRate:        cfg.Render.LerpRate,
		PointerStrength: cfg.Render.PointerStrength,
		PixelRatioCap:   cfg.Render.PixelRatioCap,
		FPS:             cfg.Render.FPS,
		Provider:        celestial.NewProvider(newLocator(cfg.Location)),
		OnPhase: func(p celestial.Phase) {
			if cfg.Colors.Theme != config.ThemeAuto {
				return
			}
			if err := r.ApplyPalette(paletteForPhase(p)); err != nil {
				logger.Warn("apply palette", "err", err)
			}
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer r.Destroy()
	if err := target.Err(); err != nil {
		return err
	}

	if mode == modePreview {
		win.OnKey(func(key glfw.Key) {
			switch key {
			case glfw.KeyT:
				next := colorx.NextPalette(r.Palette())
				if err := r.ApplyPalette(next); err != nil {
					logger.Warn("apply palette", "err", err)
					return
				}
				logger.Info("palette", "name", next.Name)
			case glfw.KeyEscape, glfw.KeyQ:
				win.Close()
			}
		})
	}

	if err := r.Start(); err != nil {
		return err
	}
	if cfg.Sun.Enabled {
		ellipse := celestial.Ellipse{
			RadiusX:   cfg.Sun.RadiusX,
			RadiusY:   cfg.Sun.RadiusY,
			BaselineY: cfg.Sun.BaselineY,
		}
		if err := r.StartUpdatingSun(cfg.Sun.Interval, ellipse); err != nil {
			return err
		}
	}

	win.Run(l)
	return nil
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [flags] [/s | /p [hwnd] | /c]\n", appName)
	fmt.Fprintln(w, "  /p opens its own window; a preview window handle is ignored.")
}

func configPath(fs *pflag.FlagSet) (string, error) {
	if p, _ := fs.GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

func main() {
	fs := pflag.NewFlagSet(appName, pflag.ExitOnError)
	fs.Usage = func() {
		usage(os.Stderr)
		fs.PrintDefaults()
	}
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])
	mode := detectMode(fs.Args())

	bootLogger, _ := logging.New(os.Stderr, logging.Options{Prefix: appName})
	cfg, err := config.Load("", fs, bootLogger)
	if err != nil {
		bootLogger.Error("load configuration", "err", err)
		os.Exit(1)
	}
	logger, err := logging.New(os.Stderr, logging.Options{
		Level:  cfg.Log.Level,
		Debug:  cfg.Log.Debug,
		Prefix: appName,
	})
	if err != nil {
		bootLogger.Error("configure logging", "err", err)
		os.Exit(1)
	}
	logger.Debug("starting", "mode", mode, "theme", cfg.Colors.Theme, "location", cfg.Location.Source)

	switch mode {
	case modeConfig:
		path, err := configPath(fs)
		if err != nil {
			logger.Error("locate config file", "err", err)
			os.Exit(1)
		}
		runConfigMode(cfg, path, logger)
	default:
		if err := runBackdrop(mode, cfg, logger); err != nil {
			logger.Error("backdrop failed", "mode", mode, "err", err)
			os.Exit(1)
		}
	}
}
