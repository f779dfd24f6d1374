package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPixelRatio(t *testing.T) {
	assert.Equal(t, 2.0, pixelRatio(2560, 1280))
	assert.Equal(t, 1.0, pixelRatio(800, 800))
	assert.Equal(t, 1.0, pixelRatio(0, 800))
	assert.Equal(t, 1.0, pixelRatio(800, 0))
}

type fakeIdler struct {
	frames int
	wait   time.Duration
	timers bool
}

func (f fakeIdler) PendingFrames() int { return f.frames }

func (f fakeIdler) Idle() (time.Duration, bool) {
	if f.frames > 0 {
		return 0, true
	}
	return f.wait, f.timers
}

func TestNextWait(t *testing.T) {
	refresh := time.Second / 60

	assert.Equal(t, refresh-4*time.Millisecond, nextWait(fakeIdler{frames: 1}, refresh, 4*time.Millisecond))
	assert.LessOrEqual(t, nextWait(fakeIdler{frames: 1}, refresh, 20*time.Millisecond), time.Duration(0))
	assert.Equal(t, 3*time.Second, nextWait(fakeIdler{wait: 3 * time.Second, timers: true}, refresh, 0))
	assert.Equal(t, idleWait, nextWait(fakeIdler{}, refresh, 0))
}
