package celestial

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultBaselineY is the vertical anchor of the sun ellipse.
const DefaultBaselineY = 0.09

// Ellipse maps a sun position onto the unit square the shader samples in.
type Ellipse struct {
	RadiusX   float64
	RadiusY   float64
	BaselineY float64
}

var (
	// PeriodicEllipse is used for the recurring updates.
	PeriodicEllipse = Ellipse{RadiusX: 0.3, RadiusY: 0.125, BaselineY: DefaultBaselineY}
	// InitialEllipse is the wider ellipse of a one-off update.
	InitialEllipse = Ellipse{RadiusX: 0.4, RadiusY: 0.2, BaselineY: DefaultBaselineY}
)

// Target projects p onto the ellipse.
func (e Ellipse) Target(p Position) mgl32.Vec2 {
	x := 0.5 - e.RadiusX*math.Sin(p.Azimuth)
	y := e.BaselineY - e.RadiusY*math.Sin(p.Altitude)
	return mgl32.Vec2{float32(x), float32(y)}
}

// Provider turns the observer's location and the current time into a target.
type Provider struct {
	Locator Locator
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewProvider returns a provider using the wall clock.
func NewProvider(l Locator) *Provider {
	return &Provider{Locator: l, Now: time.Now}
}

// Time reads the provider's clock.
func (p *Provider) Time() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Sun locates the observer and returns the sun's position for them.
func (p *Provider) Sun(ctx context.Context) (Coordinates, Position, error) {
	if p.Locator == nil {
		return Coordinates{}, Position{}, ErrUnsupported
	}
	c, err := p.Locator.Locate(ctx)
	if err != nil {
		return Coordinates{}, Position{}, fmt.Errorf("locate observer: %w", err)
	}
	return c, SunPosition(p.Time(), c), nil
}

// Reading is one sun lookup: where the centre should go and the observer's
// time of day.
type Reading struct {
	Target mgl32.Vec2
	Phase  Phase
}

// Target locates the observer once and maps the current sun position onto e.
func (p *Provider) Target(ctx context.Context, e Ellipse) (Reading, error) {
	c, pos, err := p.Sun(ctx)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Target: e.Target(pos), Phase: PhaseAt(p.Time(), c)}, nil
}
