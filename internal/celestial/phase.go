package celestial

import "time"

// Phase is a coarse time of day.
type Phase string

const (
	PhaseNight  Phase = "night"
	PhaseDawn   Phase = "dawn"
	PhaseDay    Phase = "day"
	PhaseSunset Phase = "sunset"
	PhaseDusk   Phase = "dusk"
)

// PhaseAt classifies now for an observer at c. When the day has no dawn,
// dusk, sunrise, golden hour or sunset (high latitudes), the sun's altitude
// decides between day and night.
func PhaseAt(now time.Time, c Coordinates) Phase {
	t := SunTimes(now, c)

	dawn, ok1 := t.At(Dawn)
	dusk, ok2 := t.At(Dusk)
	sunrise, ok3 := t.At(Sunrise)
	golden, ok4 := t.At(GoldenHour)
	sunset, ok5 := t.At(Sunset)
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		if SunPosition(now, c).Altitude > 0 {
			return PhaseDay
		}
		return PhaseNight
	}

	switch {
	case now.Before(dawn) || !now.Before(dusk):
		return PhaseNight
	case now.Before(sunrise):
		return PhaseDawn
	case now.Before(golden):
		return PhaseDay
	case now.Before(sunset):
		return PhaseSunset
	default:
		return PhaseDusk
	}
}
