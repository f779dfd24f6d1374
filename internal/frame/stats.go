package frame

import "time"

const (
	fpsPeriod      = time.Second
	drawTimeWindow = 5 * time.Second
)

type drawSample struct {
	at       time.Duration
	duration time.Duration
}

// Stats keeps the frame rate measured over the last second and the draw
// durations of the last five seconds.
type Stats struct {
	fps       float64
	frames    int
	fpsSince  time.Duration
	primed    bool
	drawTimes []drawSample
}

// Record adds a frame drawn at now that took d to draw. It reports whether
// the frame rate was refreshed by this call, which happens once a second.
func (s *Stats) Record(now, d time.Duration) bool {
	if !s.primed {
		s.primed = true
		s.fpsSince = now
	}

	s.drawTimes = append(s.drawTimes, drawSample{at: now, duration: d})
	cutoff := now - drawTimeWindow
	valid := 0
	for valid < len(s.drawTimes) && s.drawTimes[valid].at <= cutoff {
		valid++
	}
	if valid > 0 {
		s.drawTimes = s.drawTimes[valid:]
	}

	s.frames++
	span := now - s.fpsSince
	if span < fpsPeriod {
		return false
	}
	s.fps = float64(s.frames) / span.Seconds()
	s.frames = 0
	s.fpsSince = now
	return true
}

// FPS is the frame rate over the last completed one-second period.
func (s *Stats) FPS() float64 { return s.fps }

// AverageDrawTime is the mean draw duration over the last five seconds.
func (s *Stats) AverageDrawTime() time.Duration {
	if len(s.drawTimes) == 0 {
		return 0
	}
	var sum time.Duration
	for _, e := range s.drawTimes {
		sum += e.duration
	}
	return sum / time.Duration(len(s.drawTimes))
}
