package surface

import "github.com/go-gl/mathgl/mgl32"

// BoundsSource supplies the cached layout rectangle.
type BoundsSource interface {
	Bounds() (Rect, bool)
}

// Tracker keeps the pointer position normalised to the surface bounds.
// Values outside [0, 1] are kept as is.
type Tracker struct {
	src BoundsSource
	pos mgl32.Vec2
}

func NewTracker(src BoundsSource) *Tracker {
	return &Tracker{src: src}
}

// Move records a pointer position in client coordinates. It is a no-op
// until bounds have been measured.
func (t *Tracker) Move(clientX, clientY float64) {
	r, ok := t.src.Bounds()
	if !ok || r.Empty() {
		return
	}
	t.pos = mgl32.Vec2{
		float32((clientX - r.Left) / r.Width),
		float32((clientY - r.Top) / r.Height),
	}
}

// Position returns the normalised pointer position.
func (t *Tracker) Position() mgl32.Vec2 { return t.pos }
