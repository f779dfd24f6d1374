// Package surface tracks the drawable area: its layout size, the capped
// backing resolution and the pointer position relative to it.
package surface

import (
	"log/slog"
	"math"
)

// DefaultPixelRatioCap bounds the backing resolution relative to layout
// units, trading fidelity for fill cost on dense displays.
const DefaultPixelRatioCap = 0.5

// Rect is a layout rectangle in client coordinates.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Layout is the measurement side of the host. It is only consulted on resize.
type Layout interface {
	Bounds() Rect
	DevicePixelRatio() float64
}

// Backing is the render target whose storage follows the pixel size.
type Backing interface {
	Size() (width, height int)
	// Resize reallocates storage and updates the viewport.
	Resize(width, height int)
}

// Metrics is the snapshot the draw path reads.
type Metrics struct {
	LogicalWidth, LogicalHeight float64
	PixelWidth, PixelHeight     int
	Bounds                      Rect
}

// Manager owns the metrics. Only Resize writes them.
type Manager struct {
	layout  Layout
	backing Backing
	cap     float64
	logger  *slog.Logger

	metrics  Metrics
	measured bool
}

// NewManager measures the layout once and sizes the backing. A non-positive
// ratioCap selects DefaultPixelRatioCap.
func NewManager(layout Layout, backing Backing, ratioCap float64, logger *slog.Logger) *Manager {
	if ratioCap <= 0 {
		ratioCap = DefaultPixelRatioCap
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{layout: layout, backing: backing, cap: ratioCap, logger: logger}
	m.Resize()
	return m
}

// Resize re-measures the layout and reallocates the backing when the pixel
// size changed. It reports whether a reallocation happened.
func (m *Manager) Resize() bool {
	bounds := m.layout.Bounds()
	ratio := math.Min(m.layout.DevicePixelRatio(), m.cap)
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = m.cap
	}

	m.metrics = Metrics{
		LogicalWidth:  bounds.Width,
		LogicalHeight: bounds.Height,
		PixelWidth:    scaled(bounds.Width, ratio),
		PixelHeight:   scaled(bounds.Height, ratio),
		Bounds:        bounds,
	}
	m.measured = true

	w, h := m.backing.Size()
	if w == m.metrics.PixelWidth && h == m.metrics.PixelHeight {
		return false
	}
	m.backing.Resize(m.metrics.PixelWidth, m.metrics.PixelHeight)
	m.logger.Debug("backing resized",
		"logical", [2]float64{bounds.Width, bounds.Height},
		"pixels", [2]int{m.metrics.PixelWidth, m.metrics.PixelHeight},
		"ratio", ratio)
	return true
}

// Metrics returns the last measured metrics without touching the layout.
func (m *Manager) Metrics() Metrics { return m.metrics }

// Bounds returns the cached layout rectangle, false before the first resize.
func (m *Manager) Bounds() (Rect, bool) { return m.metrics.Bounds, m.measured }

// PixelRatioCap returns the cap in effect.
func (m *Manager) PixelRatioCap() float64 { return m.cap }

func scaled(logical, ratio float64) int {
	px := int(math.Round(logical * ratio))
	if px < 1 {
		return 1
	}
	return px
}
