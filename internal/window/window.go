// Package window hosts the background in a GLFW window with an OpenGL 3.3
// core context.
package window

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"sunglow/internal/loop"
	"sunglow/internal/surface"
)

// Init initialises GLFW. It must run on the main OS thread.
func Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize GLFW: %w", err)
	}
	return nil
}

// Terminate releases GLFW.
func Terminate() { glfw.Terminate() }

// Config describes the window to open.
type Config struct {
	Title      string
	Fullscreen bool
	Width      int
	Height     int
	Resizable  bool
	HideCursor bool
	// ExitOnInput closes the window on any key or mouse button press.
	ExitOnInput bool
	VSync       bool
}

// Window is a GLFW window that reports its size and pointer moves to
// registered listeners. Size and pixel ratio are cached when GLFW reports a
// change, so Bounds never queries the window system.
type Window struct {
	surface.Listeners

	win    *glfw.Window
	logger *slog.Logger

	bounds     surface.Rect
	fbW, fbH   int
	ratio      float64
	refresh    time.Duration
	keyHandler func(glfw.Key)
}

// Open creates the window and makes its context current.
func Open(cfg Config, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable && !cfg.Fullscreen))

	monitor := glfw.GetPrimaryMonitor()
	refreshRate := 60
	if monitor != nil {
		if mode := monitor.GetVideoMode(); mode != nil && mode.RefreshRate > 0 {
			refreshRate = mode.RefreshRate
		}
	}

	var (
		win *glfw.Window
		err error
	)
	if cfg.Fullscreen && monitor != nil {
		mode := monitor.GetVideoMode()
		win, err = glfw.CreateWindow(mode.Width, mode.Height, cfg.Title, monitor, nil)
	} else {
		win, err = glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{
		win:     win,
		logger:  logger,
		refresh: time.Second / time.Duration(refreshRate),
	}
	w.measure()

	win.SetSizeCallback(func(_ *glfw.Window, _, _ int) { w.changed() })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) { w.changed() })
	win.SetContentScaleCallback(func(_ *glfw.Window, _, _ float32) { w.changed() })
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.DispatchPointer(x, y)
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if cfg.ExitOnInput {
			w.Close()
			return
		}
		if w.keyHandler != nil {
			w.keyHandler(key)
		}
	})
	if cfg.ExitOnInput {
		win.SetMouseButtonCallback(func(_ *glfw.Window, _ glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
			if action == glfw.Press {
				w.Close()
			}
		})
	}
	if cfg.HideCursor {
		win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}

	logger.Info("window opened",
		"size", [2]float64{w.bounds.Width, w.bounds.Height},
		"framebuffer", [2]int{w.fbW, w.fbH},
		"refresh_hz", refreshRate,
		"fullscreen", cfg.Fullscreen)
	return w, nil
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

func (w *Window) measure() {
	width, height := w.win.GetSize()
	w.fbW, w.fbH = w.win.GetFramebufferSize()
	w.bounds = surface.Rect{Width: float64(width), Height: float64(height)}
	w.ratio = pixelRatio(w.fbW, width)
}

func (w *Window) changed() {
	w.measure()
	w.DispatchResize()
}

// pixelRatio is framebuffer pixels per window coordinate, 1 when unknown.
func pixelRatio(fbWidth, width int) float64 {
	if width <= 0 || fbWidth <= 0 {
		return 1
	}
	return float64(fbWidth) / float64(width)
}

// Bounds is the client area in window coordinates.
func (w *Window) Bounds() surface.Rect { return w.bounds }

// DevicePixelRatio is the framebuffer-to-window scale.
func (w *Window) DevicePixelRatio() float64 { return w.ratio }

// FramebufferSize is the size of the default framebuffer in pixels.
func (w *Window) FramebufferSize() (int, int) { return w.fbW, w.fbH }

// OnKey sets the handler for key presses. It is not called when the window
// exits on input.
func (w *Window) OnKey(fn func(glfw.Key)) { w.keyHandler = fn }

// SwapBuffers shows the frame drawn to the default framebuffer.
func (w *Window) SwapBuffers() { w.win.SwapBuffers() }

// ShouldClose reports whether the window was asked to close.
func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// Close asks the window to close; Run returns on its next turn.
func (w *Window) Close() { w.win.SetShouldClose(true) }

// Destroy destroys the GLFW window.
func (w *Window) Destroy() { w.win.Destroy() }

// Run drives l until the window closes. While frames are pending, turns are
// paced to the monitor's refresh rate; otherwise it sleeps until the next
// timer, an input event or a Post.
func (w *Window) Run(l *loop.Loop) {
	l.SetWake(glfw.PostEmptyEvent)
	defer l.SetWake(nil)

	for !w.win.ShouldClose() {
		turn := time.Now()
		l.RunOnce()

		wait := nextWait(l, w.refresh, time.Since(turn))
		if wait <= 0 {
			glfw.PollEvents()
		} else {
			glfw.WaitEventsTimeout(wait.Seconds())
		}
	}
}

// idleWait is how long to block when nothing at all is scheduled.
const idleWait = time.Second

type idler interface {
	PendingFrames() int
	Idle() (time.Duration, bool)
}

func nextWait(l idler, refresh, spent time.Duration) time.Duration {
	if l.PendingFrames() > 0 {
		return refresh - spent
	}
	wait, ok := l.Idle()
	if !ok {
		return idleWait
	}
	return wait
}
