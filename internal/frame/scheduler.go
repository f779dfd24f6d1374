// Package frame paces drawing at a fixed rate on top of a host-provided
// "next frame" primitive.
package frame

import "time"

// TargetFPS is the draw rate the background renders at.
const TargetFPS = 30

// Callback receives the host's monotonic time at the start of the frame.
type Callback func(now time.Duration)

// Token identifies a pending frame request.
type Token uint64

// Requester is the host's frame primitive. A requested callback fires once,
// on the next frame, unless it is cancelled first.
type Requester interface {
	RequestFrame(cb Callback) Token
	CancelFrame(t Token)
}

// Scheduler re-requests a frame on every tick and calls draw only when more
// than one interval has elapsed since the previous draw. The fractional
// overshoot is carried into the next interval, so the number of draws over
// a long run tracks wall-clock time at the target rate.
type Scheduler struct {
	req      Requester
	now      func() time.Duration
	interval time.Duration
	draw     Callback

	token   Token
	running bool
	last    time.Duration
}

// NewScheduler returns a stopped scheduler drawing fps times per second.
// now must be the same clock that req passes to its callbacks.
func NewScheduler(req Requester, now func() time.Duration, fps int, draw Callback) *Scheduler {
	if fps <= 0 {
		fps = TargetFPS
	}
	return &Scheduler{
		req:      req,
		now:      now,
		interval: time.Second / time.Duration(fps),
		draw:     draw,
	}
}

// Interval is the minimum time between draws.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Running reports whether a frame request is outstanding.
func (s *Scheduler) Running() bool { return s.running }

// Start begins requesting frames. Calling it while running does nothing.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.last = s.now()
	s.token = s.req.RequestFrame(s.tick)
}

// Stop cancels the outstanding frame request. Calling it while stopped does
// nothing.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.req.CancelFrame(s.token)
	s.token = 0
}

func (s *Scheduler) tick(now time.Duration) {
	if !s.running {
		return
	}
	s.token = s.req.RequestFrame(s.tick)

	elapsed := now - s.last
	if elapsed <= s.interval {
		return
	}
	s.last = now - elapsed%s.interval
	s.draw(now)
}
