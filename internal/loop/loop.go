// Package loop is a single-threaded cooperative event loop. Frame requests,
// interval timers and posted continuations all run on the goroutine that
// calls RunOnce.
package loop

import (
	"sync"
	"time"

	"sunglow/internal/frame"
)

type frameRequest struct {
	token frame.Token
	cb    frame.Callback
}

// Loop is not safe for concurrent use, except for Post.
type Loop struct {
	now func() time.Duration

	nextToken frame.Token
	frames    []frameRequest
	timers    []*Timer

	mu     sync.Mutex
	posted []func()
	wake   func()
}

// New returns a loop on the process's monotonic clock.
func New() *Loop {
	start := time.Now()
	return NewWithClock(func() time.Duration { return time.Since(start) })
}

// NewWithClock returns a loop whose time is read from now.
func NewWithClock(now func() time.Duration) *Loop {
	return &Loop{now: now}
}

// Now is the time since the loop's clock started.
func (l *Loop) Now() time.Duration { return l.now() }

// RequestFrame schedules cb for the next turn. Callbacks requested while a
// turn is running fire on the following turn.
func (l *Loop) RequestFrame(cb frame.Callback) frame.Token {
	l.nextToken++
	l.frames = append(l.frames, frameRequest{token: l.nextToken, cb: cb})
	return l.nextToken
}

// CancelFrame drops a pending frame request. Unknown tokens are ignored.
func (l *Loop) CancelFrame(t frame.Token) {
	for i, r := range l.frames {
		if r.token == t {
			l.frames = append(l.frames[:i:i], l.frames[i+1:]...)
			return
		}
	}
}

// PendingFrames is the number of outstanding frame requests.
func (l *Loop) PendingFrames() int { return len(l.frames) }

// Active is the number of live timers.
func (l *Loop) Active() int { return len(l.timers) }

// SetWake installs fn to be called after every Post, so a host blocked
// waiting for input can return and run the posted function. Nil removes it.
// It is safe to call while other goroutines post.
func (l *Loop) SetWake(fn func()) {
	l.mu.Lock()
	l.wake = fn
	l.mu.Unlock()
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	wake := l.wake
	l.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// SetInterval calls fn every d, starting d from now.
func (l *Loop) SetInterval(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	t := &Timer{loop: l, interval: d, due: l.now() + d, fn: fn}
	l.timers = append(l.timers, t)
	return t
}

// RunOnce runs one turn: posted continuations, then due timers, then the
// frame callbacks that were pending when the turn began.
func (l *Loop) RunOnce() {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range posted {
		fn()
	}

	now := l.now()
	for _, t := range append([]*Timer(nil), l.timers...) {
		if t.stopped || now < t.due {
			continue
		}
		t.due += t.interval
		if t.due <= now {
			// skip missed periods instead of firing a burst
			t.due = now + t.interval
		}
		t.fn()
	}

	frames := l.frames
	l.frames = nil
	for _, r := range frames {
		r.cb(now)
	}
}

// Idle reports whether nothing is scheduled for the next turn, and if so how
// long until the earliest timer is due. ok is false when there are no timers.
func (l *Loop) Idle() (wait time.Duration, ok bool) {
	if len(l.frames) > 0 || l.hasPosted() {
		return 0, true
	}
	now := l.now()
	for _, t := range l.timers {
		d := t.due - now
		if d < 0 {
			d = 0
		}
		if !ok || d < wait {
			wait, ok = d, true
		}
	}
	return wait, ok
}

func (l *Loop) hasPosted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted) > 0
}

func (l *Loop) removeTimer(t *Timer) {
	for i, x := range l.timers {
		if x == t {
			l.timers = append(l.timers[:i:i], l.timers[i+1:]...)
			return
		}
	}
}

// Timer is a repeating timer owned by its creator.
type Timer struct {
	loop     *Loop
	interval time.Duration
	due      time.Duration
	fn       func()
	stopped  bool
}

// Stop cancels the timer. It is safe to call more than once and from inside
// the timer's own callback.
func (t *Timer) Stop() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	t.loop.removeTimer(t)
}
