package glcore

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Target is an offscreen colour buffer the gradient is drawn into at the
// capped pixel size. Present stretches it over the window's framebuffer,
// which is how a low-resolution backing ends up filling the screen.
type Target struct {
	fbo, rbo uint32
	w, h     int
	err      error
}

// Size is the allocated size in pixels.
func (t *Target) Size() (int, int) { return t.w, t.h }

// Err is the completeness error from the last Resize, if any.
func (t *Target) Err() error { return t.err }

// Resize reallocates the colour buffer and sets the viewport to match.
func (t *Target) Resize(w, h int) {
	if t.fbo == 0 {
		gl.GenFramebuffers(1, &t.fbo)
		gl.GenRenderbuffers(1, &t.rbo)
	}

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, int32(w), int32(h))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.rbo)
	t.err = nil
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		t.err = fmt.Errorf("offscreen framebuffer incomplete: 0x%x", status)
	}
	gl.Viewport(0, 0, int32(w), int32(h))
	t.w, t.h = w, h
}

// Bind makes the target the draw destination.
func (t *Target) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.w), int32(t.h))
}

// Blit copies the target onto the default framebuffer of dstW x dstH pixels
// with linear filtering.
func (t *Target) Blit(dstW, dstH int) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(
		0, 0, int32(t.w), int32(t.h),
		0, 0, int32(dstW), int32(dstH),
		gl.COLOR_BUFFER_BIT, gl.LINEAR,
	)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Release deletes the GL objects. The target can be resized again after.
func (t *Target) Release() {
	if t.fbo == 0 {
		return
	}
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteRenderbuffers(1, &t.rbo)
	t.fbo, t.rbo = 0, 0
	t.w, t.h = 0, 0
}
