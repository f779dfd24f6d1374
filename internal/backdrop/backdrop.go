// Package backdrop is the animated background: a gradient whose centre
// drifts toward the sun's place in the sky and leans away from the pointer.
package backdrop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"sunglow/internal/celestial"
	"sunglow/internal/colorx"
	"sunglow/internal/frame"
	"sunglow/internal/gpu"
	"sunglow/internal/loop"
	"sunglow/internal/motion"
	"sunglow/internal/surface"
)

// ErrDestroyed is returned by calls made after Destroy.
var ErrDestroyed = errors.New("backdrop destroyed")

// DefaultSunInterval is how often StartUpdatingSun refreshes the target.
const DefaultSunInterval = time.Minute

// State is the renderer's lifecycle state.
type State int

const (
	Ready State = iota
	Running
	Destroyed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Window is the drawable the renderer measures and listens to.
type Window interface {
	surface.Layout
	surface.Events
}

// Target is the backing surface frames are drawn into. Bind makes it the
// draw destination and Present puts the finished frame on screen. Err
// reports a backing the last Resize could not complete.
type Target interface {
	surface.Backing
	Bind()
	Present()
	Err() error
}

// Options tunes a renderer. Zero values select the defaults.
type Options struct {
	Palette         colorx.Palette
	LerpRate        float32
	PointerStrength float32
	PixelRatioCap   float64
	FPS             int

	// Provider supplies sun targets. Without one, sun updates fail with
	// celestial.ErrUnsupported.
	Provider *celestial.Provider
	// OnPhase, when set, is called on the loop after every successful sun
	// update with the observer's time of day.
	OnPhase func(celestial.Phase)

	Logger *slog.Logger
}

// Renderer owns all render state. Every method must be called on the loop
// goroutine.
type Renderer struct {
	loop   *loop.Loop
	win    Window
	target Target
	logger *slog.Logger

	res       *gpu.Resources
	surface   *surface.Manager
	pointer   *surface.Tracker
	engine    *motion.Engine
	scheduler *frame.Scheduler
	stats     frame.Stats

	provider *celestial.Provider
	onPhase  func(celestial.Phase)

	inner, outer colorx.RGB
	palette      string

	state      State
	startTime  time.Duration
	lastFrame  time.Duration
	sunTimer   *loop.Timer
	sunEllipse celestial.Ellipse

	ctx    context.Context
	cancel context.CancelFunc

	onResize  *resizeHandler
	onPointer *pointerHandler
}

type resizeHandler struct{ r *Renderer }

func (h *resizeHandler) OnResize() {
	if !h.r.surface.Resize() {
		return
	}
	m := h.r.surface.Metrics()
	if err := h.r.target.Err(); err != nil {
		h.r.logger.Error("resize backing", "width", m.PixelWidth, "height", m.PixelHeight, "err", err)
		return
	}
	h.r.logger.Info("surface resized", "width", m.PixelWidth, "height", m.PixelHeight)
}

type pointerHandler struct{ r *Renderer }

func (h *pointerHandler) OnPointerMove(clientX, clientY float64) {
	h.r.pointer.Move(clientX, clientY)
}

// New builds the GPU program and sizes the surface. A shader failure is
// returned and no renderer exists afterwards.
func New(l *loop.Loop, win Window, dev gpu.Device, target Target, opts Options) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res, err := gpu.NewResources(dev, logger)
	if err != nil {
		return nil, fmt.Errorf("create gpu resources: %w", err)
	}

	palette := opts.Palette
	if palette == (colorx.Palette{}) {
		palette = colorx.DefaultPalette
	}

	fps := opts.FPS
	if fps <= 0 {
		fps = frame.TargetFPS
	}
	engine := motion.NewEngine(float32(fps))
	if opts.LerpRate > 0 {
		engine.LerpRate = mgl32.Clamp(opts.LerpRate, 0, 1)
	}
	if opts.PointerStrength > 0 {
		engine.PointerStrength = opts.PointerStrength
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Renderer{
		loop:     l,
		win:      win,
		target:   target,
		logger:   logger,
		res:      res,
		engine:   engine,
		provider: opts.Provider,
		onPhase:  opts.OnPhase,
		inner:    palette.Inner.Clamp(),
		outer:    palette.Outer.Clamp(),
		palette:  palette.Name,
		state:    Ready,
		ctx:      ctx,
		cancel:   cancel,
	}
	r.surface = surface.NewManager(win, target, opts.PixelRatioCap, logger)
	r.pointer = surface.NewTracker(r.surface)
	r.scheduler = frame.NewScheduler(l, l.Now, fps, r.draw)

	r.onResize = &resizeHandler{r}
	r.onPointer = &pointerHandler{r}
	win.AddResizeListener(r.onResize)
	win.AddPointerListener(r.onPointer)

	m := r.surface.Metrics()
	logger.Info("backdrop ready",
		"pixels", [2]int{m.PixelWidth, m.PixelHeight},
		"ratio_cap", r.surface.PixelRatioCap(),
		"palette", palette.Name)
	return r, nil
}

// Start begins drawing. It does nothing while already running.
func (r *Renderer) Start() error {
	switch r.state {
	case Destroyed:
		return ErrDestroyed
	case Running:
		return nil
	}
	r.state = Running
	r.startTime = r.loop.Now()
	r.lastFrame = r.startTime
	r.scheduler.Start()
	r.logger.Info("backdrop started")
	if r.sunTimer != nil {
		r.UpdateSunTarget(r.ctx, r.sunEllipse)
	}
	return nil
}

// Stop pauses drawing. It does nothing unless running.
func (r *Renderer) Stop() {
	if r.state != Running {
		return
	}
	r.scheduler.Stop()
	r.state = Ready
	r.logger.Info("backdrop stopped")
}

// Destroy stops drawing, cancels sun updates, detaches the listeners and
// frees the GPU program. It is safe to call more than once.
func (r *Renderer) Destroy() {
	if r.state == Destroyed {
		return
	}
	r.Stop()
	r.state = Destroyed
	r.cancel()
	r.sunTimer.Stop()
	r.sunTimer = nil
	r.win.RemoveResizeListener(r.onResize)
	r.win.RemovePointerListener(r.onPointer)
	r.res.Release()
	r.logger.Info("backdrop destroyed")
}

// State returns the lifecycle state.
func (r *Renderer) State() State { return r.state }

// Center is the current gradient centre.
func (r *Renderer) Center() mgl32.Vec2 { return r.engine.Current }

// Target is where the centre is heading.
func (r *Renderer) Target() mgl32.Vec2 { return r.engine.Target }

// Colors returns the inner and outer colours.
func (r *Renderer) Colors() (inner, outer colorx.RGB) { return r.inner, r.outer }

// Palette is the name of the palette last applied, or "custom".
func (r *Renderer) Palette() string { return r.palette }

// UpdateColors replaces the gradient colours from the next frame on.
// Channels must lie in [0, 1].
func (r *Renderer) UpdateColors(inner, outer colorx.RGB) error {
	if r.state == Destroyed {
		return ErrDestroyed
	}
	if !inner.Valid() || !outer.Valid() {
		return fmt.Errorf("colours out of range: inner %v outer %v", inner, outer)
	}
	r.inner, r.outer = inner, outer
	r.palette = "custom"
	return nil
}

// ApplyPalette sets the colours of p and remembers its name.
func (r *Renderer) ApplyPalette(p colorx.Palette) error {
	if err := r.UpdateColors(p.Inner, p.Outer); err != nil {
		return err
	}
	r.palette = p.Name
	r.logger.Debug("palette applied", "name", p.Name, "inner", p.Inner.Hex(), "outer", p.Outer.Hex())
	return nil
}

func (r *Renderer) draw(now time.Duration) {
	dt := (now - r.lastFrame).Seconds()
	r.lastFrame = now

	center := r.engine.Advance(dt, r.pointer.Position())
	m := r.surface.Metrics()

	begin := time.Now()
	r.target.Bind()
	r.res.Draw(gpu.Uniforms{
		Resolution: mgl32.Vec2{float32(m.PixelWidth), float32(m.PixelHeight)},
		Time:       float32((now - r.startTime).Seconds()),
		Inner:      r.inner,
		Outer:      r.outer,
		Center:     center,
	})
	r.target.Present()

	if r.stats.Record(now, time.Since(begin)) {
		r.logger.Debug("frame stats",
			"fps", fmt.Sprintf("%.1f", r.stats.FPS()),
			"draw", r.stats.AverageDrawTime(),
			"center", center,
			"target", r.engine.Target)
	}
}
