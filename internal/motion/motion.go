// Package motion advances the gradient centre toward its target with
// exponential smoothing that is normalised to a nominal frame rate.
package motion

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultLerpRate        = 0.15
	DefaultPointerStrength = 0.05
	// MaxSpeedFactor caps how many nominal frames one step may cover, so a
	// long stall (e.g. a hidden window) does not produce a jump.
	MaxSpeedFactor = 5
)

// DefaultCenter is where the centre and target start.
var DefaultCenter = mgl32.Vec2{0.5, 0.2}

// Engine holds the current and target centre.
type Engine struct {
	Current mgl32.Vec2
	Target  mgl32.Vec2

	// LerpRate is the fraction of the remaining distance covered per
	// nominal frame, in (0, 1].
	LerpRate        float32
	PointerStrength float32
	NominalFPS      float32
}

// NewEngine starts at DefaultCenter with default rates.
func NewEngine(nominalFPS float32) *Engine {
	return &Engine{
		Current:         DefaultCenter,
		Target:          DefaultCenter,
		LerpRate:        DefaultLerpRate,
		PointerStrength: DefaultPointerStrength,
		NominalFPS:      nominalFPS,
	}
}

// SpeedFactor is the number of nominal frames dt covers, clamped to
// [0, MaxSpeedFactor].
func (e *Engine) SpeedFactor(dt float64) float32 {
	return mgl32.Clamp(float32(dt)*e.NominalFPS, 0, MaxSpeedFactor)
}

// EffectiveLerp is the interpolation weight applied for a step of dt seconds.
func (e *Engine) EffectiveLerp(dt float64) float32 {
	return mgl32.Clamp(e.LerpRate*e.SpeedFactor(dt), 0, 1)
}

// PointerOffset converts a normalised pointer position into a centre offset.
// Y is flipped because layout Y grows downward and shader Y upward.
func (e *Engine) PointerOffset(pointer mgl32.Vec2) mgl32.Vec2 {
	off := pointer.Sub(mgl32.Vec2{0.5, 0.5}).Mul(e.PointerStrength)
	return mgl32.Vec2{off.X(), -off.Y()}
}

// Advance moves Current for a step of dt seconds and returns it.
func (e *Engine) Advance(dt float64, pointer mgl32.Vec2) mgl32.Vec2 {
	adjusted := e.Current.Add(e.PointerOffset(pointer))
	e.Current = e.Current.Add(e.Target.Sub(adjusted).Mul(e.EffectiveLerp(dt)))
	return e.Current
}
