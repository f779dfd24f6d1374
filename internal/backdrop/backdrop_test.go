package backdrop

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunglow/internal/celestial"
	"sunglow/internal/colorx"
	"sunglow/internal/gpu"
	"sunglow/internal/gpu/gputest"
	"sunglow/internal/loop"
	"sunglow/internal/motion"
	"sunglow/internal/surface"
)

type fakeWindow struct {
	surface.Listeners
	bounds surface.Rect
	ratio  float64
}

func (w *fakeWindow) Bounds() surface.Rect      { return w.bounds }
func (w *fakeWindow) DevicePixelRatio() float64 { return w.ratio }

type fakeTarget struct {
	w, h     int
	resizes  int
	binds    int
	presents int
	err      error
}

func (t *fakeTarget) Size() (int, int) { return t.w, t.h }

func (t *fakeTarget) Resize(w, h int) {
	t.w, t.h = w, h
	t.resizes++
}

func (t *fakeTarget) Bind()      { t.binds++ }
func (t *fakeTarget) Present()   { t.presents++ }
func (t *fakeTarget) Err() error { return t.err }

type harness struct {
	clock  time.Duration
	loop   *loop.Loop
	win    *fakeWindow
	target *fakeTarget
	dev    *gputest.Device
	wake   chan struct{}
}

func newHarness() *harness {
	h := &harness{
		win:    &fakeWindow{bounds: surface.Rect{Width: 800, Height: 600}, ratio: 2},
		target: &fakeTarget{},
		dev:    gputest.New(),
		wake:   make(chan struct{}, 16),
	}
	h.loop = loop.NewWithClock(func() time.Duration { return h.clock })
	h.loop.SetWake(func() {
		select {
		case h.wake <- struct{}{}:
		default:
		}
	})
	return h
}

func (h *harness) renderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(h.loop, h.win, h.dev, h.target, opts)
	require.NoError(t, err)
	return r
}

func (h *harness) step(d time.Duration) {
	h.clock += d
	h.loop.RunOnce()
}

// settle waits for a posted continuation and runs it.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	select {
	case <-h.wake:
	case <-time.After(5 * time.Second):
		t.Fatal("no result posted to the loop")
	}
	h.loop.RunOnce()
}

var kyiv = celestial.Coordinates{Latitude: 50.5, Longitude: 30.5}

func fixedProvider(l celestial.Locator) *celestial.Provider {
	noon := time.Date(2013, 3, 5, 10, 10, 0, 0, time.UTC)
	return &celestial.Provider{Locator: l, Now: func() time.Time { return noon }}
}

type countingLocator struct{ calls atomic.Int32 }

func (c *countingLocator) Locate(context.Context) (celestial.Coordinates, error) {
	c.calls.Add(1)
	return kyiv, nil
}

func blockingLocator() celestial.Locator {
	return celestial.LocatorFunc(func(ctx context.Context) (celestial.Coordinates, error) {
		<-ctx.Done()
		return celestial.Coordinates{}, ctx.Err()
	})
}

func TestNewFailsOnShaderError(t *testing.T) {
	h := newHarness()
	h.dev.Fail, h.dev.FailStage = true, gpu.VertexStage

	r, err := New(h.loop, h.win, h.dev, h.target, Options{})
	assert.Nil(t, r)
	assert.ErrorIs(t, err, gpu.ErrCompile)

	resize, pointer := h.win.Len()
	assert.Zero(t, resize)
	assert.Zero(t, pointer)
}

func TestNewSizesSurfaceAndRegistersListeners(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{})

	assert.Equal(t, Ready, r.State())
	assert.Equal(t, 400, h.target.w)
	assert.Equal(t, 300, h.target.h)
	assert.Equal(t, motion.DefaultCenter, r.Center())
	assert.Equal(t, motion.DefaultCenter, r.Target())

	inner, outer := r.Colors()
	assert.Equal(t, colorx.DefaultPalette.Inner, inner)
	assert.Equal(t, colorx.DefaultPalette.Outer, outer)

	resize, pointer := h.win.Len()
	assert.Equal(t, 1, resize)
	assert.Equal(t, 1, pointer)
}

func TestStartStopIdempotent(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{})

	require.NoError(t, r.Start())
	require.NoError(t, r.Start())
	assert.Equal(t, Running, r.State())
	assert.Equal(t, 1, h.loop.PendingFrames())

	for i := 0; i < 5; i++ {
		h.step(10 * time.Millisecond)
		assert.Equal(t, 1, h.loop.PendingFrames())
	}

	r.Stop()
	r.Stop()
	assert.Equal(t, Ready, r.State())
	assert.Zero(t, h.loop.PendingFrames())

	require.NoError(t, r.Start())
	assert.Equal(t, 1, h.loop.PendingFrames())
}

func TestDestroyFromAnyState(t *testing.T) {
	for _, start := range []bool{false, true} {
		h := newHarness()
		r := h.renderer(t, Options{Provider: fixedProvider(celestial.Static(kyiv))})
		if start {
			require.NoError(t, r.Start())
		}
		require.NoError(t, r.StartUpdatingSun(time.Minute, celestial.PeriodicEllipse))

		r.Destroy()
		r.Destroy()

		assert.Equal(t, Destroyed, r.State())
		assert.Zero(t, h.loop.PendingFrames())
		assert.Zero(t, h.loop.Active())
		assert.Equal(t, 1, h.dev.DeletedPrograms)
		assert.Equal(t, 1, h.dev.DeletedQuads)
		resize, pointer := h.win.Len()
		assert.Zero(t, resize)
		assert.Zero(t, pointer)

		assert.ErrorIs(t, r.Start(), ErrDestroyed)
		assert.ErrorIs(t, r.UpdateColors(colorx.White, colorx.Black), ErrDestroyed)
		assert.ErrorIs(t, r.StartUpdatingSun(time.Minute, celestial.PeriodicEllipse), ErrDestroyed)
		assert.ErrorIs(t, <-r.UpdateSunTarget(context.Background(), celestial.PeriodicEllipse), ErrDestroyed)
	}
}

func TestDrawPushesFrame(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{})
	require.NoError(t, r.Start())

	h.step(20 * time.Millisecond)
	assert.Zero(t, h.dev.Draws)

	h.step(20 * time.Millisecond)
	assert.Equal(t, 1, h.dev.Draws)
	assert.Equal(t, 1, h.target.binds)
	assert.Equal(t, 1, h.target.presents)

	res := h.dev.Last(0)
	assert.Equal(t, []float32{400, 300}, res)
	tm := h.dev.Last(1)
	require.Len(t, tm, 1)
	assert.InDelta(t, 0.04, tm[0], 1e-6)
}

func TestPointerPushesCenter(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{})
	require.NoError(t, r.Start())

	// top-left corner of the window
	h.win.DispatchPointer(0, 0)
	h.step(40 * time.Millisecond)

	c := r.Center()
	assert.Greater(t, c.X(), motion.DefaultCenter.X())
	assert.Less(t, c.Y(), motion.DefaultCenter.Y())
}

func TestResizeListener(t *testing.T) {
	h := newHarness()
	h.renderer(t, Options{})
	require.Equal(t, 1, h.target.resizes)

	h.win.DispatchResize()
	assert.Equal(t, 1, h.target.resizes)

	h.win.bounds = surface.Rect{Width: 1000, Height: 500}
	h.win.DispatchResize()
	assert.Equal(t, 2, h.target.resizes)
	assert.Equal(t, 500, h.target.w)
}

func TestResizeLogsIncompleteBacking(t *testing.T) {
	h := newHarness()
	var buf bytes.Buffer
	h.renderer(t, Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	h.target.err = errors.New("framebuffer incomplete")
	h.win.bounds = surface.Rect{Width: 1000, Height: 500}
	h.win.DispatchResize()

	assert.Contains(t, buf.String(), "resize backing")
	assert.Contains(t, buf.String(), "framebuffer incomplete")
	assert.NotContains(t, buf.String(), "surface resized")
}

func TestUpdateColors(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{})
	require.NoError(t, r.Start())

	assert.Error(t, r.UpdateColors(colorx.RGB{1.5, 0, 0}, colorx.Black))

	require.NoError(t, r.UpdateColors(colorx.RGB{0, 0.5, 1}, colorx.Black))
	assert.Equal(t, "custom", r.Palette())
	h.step(40 * time.Millisecond)
	assert.Equal(t, []float32{0, 0.5, 1}, h.dev.Last(2))

	night, ok := colorx.LookupPalette("night")
	require.True(t, ok)
	require.NoError(t, r.ApplyPalette(night))
	assert.Equal(t, "night", r.Palette())
}

func TestSunUpdateApplied(t *testing.T) {
	h := newHarness()
	var phases []celestial.Phase
	r := h.renderer(t, Options{
		Provider: fixedProvider(celestial.Static(kyiv)),
		OnPhase:  func(p celestial.Phase) { phases = append(phases, p) },
	})
	require.NoError(t, r.Start())

	done := r.UpdateSunTarget(context.Background(), celestial.InitialEllipse)
	h.settle(t)
	require.NoError(t, <-done)

	noon := time.Date(2013, 3, 5, 10, 10, 0, 0, time.UTC)
	want := celestial.InitialEllipse.Target(celestial.SunPosition(noon, kyiv))
	assert.Equal(t, want, r.Target())
	assert.Equal(t, []celestial.Phase{celestial.PhaseDay}, phases)
}

func TestSunFailureKeepsTarget(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{Provider: fixedProvider(celestial.Unavailable{})})
	require.NoError(t, r.Start())

	done := r.UpdateSunTarget(context.Background(), celestial.PeriodicEllipse)
	h.settle(t)
	assert.ErrorIs(t, <-done, celestial.ErrUnsupported)
	assert.Equal(t, motion.DefaultCenter, r.Target())

	r2 := h.renderer(t, Options{})
	assert.ErrorIs(t, <-r2.UpdateSunTarget(context.Background(), celestial.PeriodicEllipse), celestial.ErrUnsupported)
}

func TestDestroyDiscardsPendingSunUpdate(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{Provider: fixedProvider(blockingLocator())})
	require.NoError(t, r.Start())

	done := r.UpdateSunTarget(context.Background(), celestial.PeriodicEllipse)
	r.Destroy()
	h.settle(t)

	assert.NoError(t, <-done)
	assert.Equal(t, motion.DefaultCenter, r.Target())
	assert.Equal(t, motion.DefaultCenter, r.Center())
}

func TestStoppedRendererDropsSunResult(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{Provider: fixedProvider(celestial.Static(kyiv))})
	require.NoError(t, r.Start())

	done := r.UpdateSunTarget(context.Background(), celestial.PeriodicEllipse)
	r.Stop()
	h.settle(t)

	assert.NoError(t, <-done)
	assert.Equal(t, motion.DefaultCenter, r.Target())
}

func TestStartUpdatingSunReplacesTimer(t *testing.T) {
	h := newHarness()
	r := h.renderer(t, Options{Provider: fixedProvider(blockingLocator())})
	require.NoError(t, r.Start())

	require.NoError(t, r.StartUpdatingSun(time.Minute, celestial.PeriodicEllipse))
	require.NoError(t, r.StartUpdatingSun(0, celestial.PeriodicEllipse))
	assert.Equal(t, 1, h.loop.Active())

	wait, ok := h.loop.Idle()
	require.True(t, ok)
	assert.Zero(t, wait, "a frame is pending while running")

	r.Destroy()
	assert.Zero(t, h.loop.Active())
}

func TestStartUpdatingSunUpdatesNowAndOnEveryTick(t *testing.T) {
	h := newHarness()
	loc := &countingLocator{}
	now := time.Date(2013, 3, 5, 10, 10, 0, 0, time.UTC)
	r := h.renderer(t, Options{Provider: &celestial.Provider{
		Locator: loc,
		Now:     func() time.Time { return now },
	}})
	require.NoError(t, r.Start())

	e := celestial.PeriodicEllipse
	morning := e.Target(celestial.SunPosition(now, kyiv))
	require.NoError(t, r.StartUpdatingSun(time.Minute, e))
	h.settle(t)
	assert.EqualValues(t, 1, loc.calls.Load())
	assert.Equal(t, morning, r.Target())

	h.step(time.Minute)
	h.settle(t)
	assert.EqualValues(t, 2, loc.calls.Load())

	// a tick whose result lands after Stop leaves the target alone
	now = time.Date(2013, 3, 5, 14, 30, 0, 0, time.UTC)
	afternoon := e.Target(celestial.SunPosition(now, kyiv))
	require.NotEqual(t, morning, afternoon)
	h.step(time.Minute)
	r.Stop()
	h.settle(t)
	assert.EqualValues(t, 3, loc.calls.Load())
	assert.Equal(t, morning, r.Target())

	// ticks while stopped do not look anything up, but the timer stays
	h.step(time.Minute)
	h.step(time.Minute)
	assert.EqualValues(t, 3, loc.calls.Load())
	assert.Equal(t, 1, h.loop.Active())

	require.NoError(t, r.Start())
	h.settle(t)
	assert.EqualValues(t, 4, loc.calls.Load())
	assert.Equal(t, afternoon, r.Target())
}

func TestStartWithoutSunTimerLooksNothingUp(t *testing.T) {
	h := newHarness()
	loc := &countingLocator{}
	r := h.renderer(t, Options{Provider: fixedProvider(loc)})

	require.NoError(t, r.Start())
	r.Stop()
	require.NoError(t, r.Start())
	h.step(time.Minute)
	assert.Zero(t, loc.calls.Load())
}

func TestWakeInstalledWhileSunLookupRuns(t *testing.T) {
	h := newHarness()
	l := loop.New()
	r, err := New(l, h.win, h.dev, h.target, Options{Provider: fixedProvider(celestial.Static(kyiv))})
	require.NoError(t, err)
	defer r.Destroy()

	require.NoError(t, r.Start())
	require.NoError(t, r.StartUpdatingSun(time.Minute, celestial.PeriodicEllipse))
	done := r.UpdateSunTarget(context.Background(), celestial.InitialEllipse)

	// what the window host does when it starts pumping the loop
	for i := 0; i < 100; i++ {
		l.SetWake(func() {})
		l.SetWake(nil)
	}

	deadline := time.After(5 * time.Second)
	for {
		l.RunOnce()
		select {
		case err := <-done:
			require.NoError(t, err)
			return
		case <-deadline:
			t.Fatal("sun update never applied")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
