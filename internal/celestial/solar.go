// Package celestial computes where the background gradient should drift to,
// from the observer's location and the sun's position in the sky.
package celestial

import (
	"math"
	"time"
)

const (
	rad = math.Pi / 180

	dayMs = 1000 * 60 * 60 * 24
	j1970 = 2440588.0
	j2000 = 2451545.0

	// obliquity of the Earth
	obliquity = rad * 23.4397

	j0 = 0.0009
)

// Coordinates is a geographic position in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Position is the sun's place in the sky. Azimuth is measured from south,
// positive towards west; altitude is above the horizon. Both in radians.
type Position struct {
	Azimuth  float64
	Altitude float64
}

func toJulian(t time.Time) float64 {
	return float64(t.UnixMilli())/dayMs - 0.5 + j1970
}

func fromJulian(j float64) time.Time {
	ms := (j + 0.5 - j1970) * dayMs
	return time.UnixMilli(int64(math.Round(ms)))
}

func toDays(t time.Time) float64 { return toJulian(t) - j2000 }

func rightAscension(l, b float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(obliquity)-math.Tan(b)*math.Sin(obliquity), math.Cos(l))
}

func declination(l, b float64) float64 {
	return math.Asin(math.Sin(b)*math.Cos(obliquity) + math.Cos(b)*math.Sin(obliquity)*math.Sin(l))
}

func azimuth(h, phi, dec float64) float64 {
	return math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
}

func altitude(h, phi, dec float64) float64 {
	return math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h))
}

func siderealTime(d, lw float64) float64 {
	return rad*(280.16+360.9856235*d) - lw
}

func solarMeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

func eclipticLongitude(m float64) float64 {
	center := rad * (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	perihelion := rad * 102.9372
	return m + center + perihelion + math.Pi
}

func sunCoords(d float64) (dec, ra float64) {
	l := eclipticLongitude(solarMeanAnomaly(d))
	return declination(l, 0), rightAscension(l, 0)
}

// SunPosition returns the sun's azimuth and altitude at t for an observer at c.
func SunPosition(t time.Time, c Coordinates) Position {
	lw := rad * -c.Longitude
	phi := rad * c.Latitude
	d := toDays(t)

	dec, ra := sunCoords(d)
	h := siderealTime(d, lw) - ra

	return Position{
		Azimuth:  azimuth(h, phi, dec),
		Altitude: altitude(h, phi, dec),
	}
}
