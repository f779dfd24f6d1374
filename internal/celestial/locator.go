package celestial

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupported means no geolocation source is available.
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrDenied means the geolocation source refused to share a position.
	ErrDenied = errors.New("geolocation permission denied")
)

// Locator resolves the device's position. Implementations may block and must
// honour ctx.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (Coordinates, error) { return f(ctx) }

// Static always reports the same configured coordinates.
type Static Coordinates

func (s Static) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	c := Coordinates(s)
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// Unavailable is the locator used when geolocation is switched off.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (Coordinates, error) {
	return Coordinates{}, ErrUnsupported
}

// Validate checks the coordinate ranges.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180, 180]", c.Longitude)
	}
	return nil
}
