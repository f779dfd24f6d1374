package celestial

import (
	"math"
	"time"
)

// Event names a daily solar event.
type Event string

const (
	SolarNoon     Event = "solarNoon"
	Nadir         Event = "nadir"
	Sunrise       Event = "sunrise"
	Sunset        Event = "sunset"
	SunriseEnd    Event = "sunriseEnd"
	SunsetStart   Event = "sunsetStart"
	Dawn          Event = "dawn"
	Dusk          Event = "dusk"
	NauticalDawn  Event = "nauticalDawn"
	NauticalDusk  Event = "nauticalDusk"
	NightEnd      Event = "nightEnd"
	Night         Event = "night"
	GoldenHourEnd Event = "goldenHourEnd"
	GoldenHour    Event = "goldenHour"
)

// sun altitude in degrees at which each rise/set pair happens
var horizonEvents = []struct {
	angle     float64
	rise, set Event
}{
	{-0.833, Sunrise, Sunset},
	{-0.3, SunriseEnd, SunsetStart},
	{-6, Dawn, Dusk},
	{-12, NauticalDawn, NauticalDusk},
	{-18, NightEnd, Night},
	{6, GoldenHourEnd, GoldenHour},
}

// Times maps events to the moment they happen on a given day. Events the sun
// never reaches that day (polar day or night) are absent.
type Times map[Event]time.Time

// At returns the time of e and whether it occurs.
func (t Times) At(e Event) (time.Time, bool) {
	v, ok := t[e]
	return v, ok
}

func julianCycle(d, lw float64) float64 {
	return math.Round(d - j0 - lw/(2*math.Pi))
}

func approxTransit(ht, lw, n float64) float64 {
	return j0 + (ht+lw)/(2*math.Pi) + n
}

func solarTransitJ(ds, m, l float64) float64 {
	return j2000 + ds + 0.0053*math.Sin(m) - 0.0069*math.Sin(2*l)
}

func hourAngle(h, phi, dec float64) float64 {
	return math.Acos((math.Sin(h) - math.Sin(phi)*math.Sin(dec)) / (math.Cos(phi) * math.Cos(dec)))
}

// SunTimes computes the solar events of the day containing t for an observer
// at sea level at c.
func SunTimes(t time.Time, c Coordinates) Times {
	lw := rad * -c.Longitude
	phi := rad * c.Latitude

	d := toDays(t)
	n := julianCycle(d, lw)
	ds := approxTransit(0, lw, n)

	m := solarMeanAnomaly(ds)
	l := eclipticLongitude(m)
	dec := declination(l, 0)

	jNoon := solarTransitJ(ds, m, l)

	times := Times{
		SolarNoon: fromJulian(jNoon),
		Nadir:     fromJulian(jNoon - 0.5),
	}

	for _, ev := range horizonEvents {
		w := hourAngle(ev.angle*rad, phi, dec)
		if math.IsNaN(w) {
			continue
		}
		jSet := solarTransitJ(approxTransit(w, lw, n), m, l)
		jRise := jNoon - (jSet - jNoon)

		times[ev.rise] = fromJulian(jRise)
		times[ev.set] = fromJulian(jSet)
	}
	return times
}
