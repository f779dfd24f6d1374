// Package gpu owns the shader program and the full-screen quad that paint
// the background gradient.
package gpu

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"sunglow/internal/colorx"
)

var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("program link failed")
)

//go:embed shaders/gradient.vert.glsl
var VertexSource string

//go:embed shaders/gradient.frag.glsl
var FragmentSource string

// Stage is a shader pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Uniform names used by the gradient program.
const (
	UniformResolution = "u_resolution"
	UniformTime       = "u_time"
	UniformInnerColor = "u_innerColor"
	UniformOuterColor = "u_outerColor"
	UniformCenter     = "u_center"

	AttribPosition = "a_position"
)

var uniformNames = []string{
	UniformResolution,
	UniformTime,
	UniformInnerColor,
	UniformOuterColor,
	UniformCenter,
}

// QuadVertices are two clip-space triangles covering the whole target.
var QuadVertices = []float32{
	-1, -1, 1, -1, -1, 1,
	-1, 1, 1, -1, 1, 1,
}

// Device is the subset of a graphics API the renderer needs. Handles are
// opaque to callers. Compile and link failures wrap ErrCompile and ErrLink.
type Device interface {
	CompileShader(stage Stage, source string) (uint32, error)
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteShader(shader uint32)
	DeleteProgram(program uint32)

	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32

	// NewQuad uploads a static vertex buffer of 2D positions bound to attrib.
	NewQuad(vertices []float32, attrib int32) uint32
	DeleteQuad(quad uint32)

	UseProgram(program uint32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)

	Clear(r, g, b, a float32)
	DrawQuad(quad uint32, vertices int32)
}

// Uniforms is everything the gradient program reads for one frame.
type Uniforms struct {
	Resolution mgl32.Vec2
	Time       float32
	Inner      colorx.RGB
	Outer      colorx.RGB
	Center     mgl32.Vec2
}

// Resources is a linked gradient program with its quad. Uniform and
// attribute locations are resolved once at construction.
type Resources struct {
	dev      Device
	program  uint32
	quad     uint32
	uniforms map[string]int32
	position int32
	released bool
}

// NewResources compiles and links the embedded gradient shaders. Nothing is
// left allocated on the device when it fails.
func NewResources(dev Device, logger *slog.Logger) (*Resources, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	vs, err := dev.CompileShader(VertexStage, VertexSource)
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(vs)

	fs, err := dev.CompileShader(FragmentStage, FragmentSource)
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(fs)

	program, err := dev.LinkProgram(vs, fs)
	if err != nil {
		return nil, err
	}

	r := &Resources{
		dev:      dev,
		program:  program,
		uniforms: make(map[string]int32, len(uniformNames)),
	}
	for _, name := range uniformNames {
		loc := dev.UniformLocation(program, name)
		if loc < 0 {
			logger.Warn("uniform not found in program", "name", name)
		}
		r.uniforms[name] = loc
	}

	r.position = dev.AttribLocation(program, AttribPosition)
	if r.position < 0 {
		dev.DeleteProgram(program)
		return nil, fmt.Errorf("%w: attribute %s not active", ErrLink, AttribPosition)
	}
	r.quad = dev.NewQuad(QuadVertices, r.position)

	logger.Debug("gradient program ready",
		"resolution", r.uniforms[UniformResolution],
		"time", r.uniforms[UniformTime],
		"inner", r.uniforms[UniformInnerColor],
		"outer", r.uniforms[UniformOuterColor],
		"center", r.uniforms[UniformCenter],
		"position", r.position,
	)
	return r, nil
}

// Location returns the cached location of a uniform, or -1.
func (r *Resources) Location(name string) int32 {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	return -1
}

// Draw clears the bound target and paints one frame. It does nothing after
// Release.
func (r *Resources) Draw(u Uniforms) {
	if r.released {
		return
	}
	d := r.dev
	d.Clear(0, 0, 0, 1)
	d.UseProgram(r.program)

	d.Uniform2f(r.uniforms[UniformCenter], u.Center.X(), u.Center.Y())
	d.Uniform2f(r.uniforms[UniformResolution], u.Resolution.X(), u.Resolution.Y())
	d.Uniform1f(r.uniforms[UniformTime], u.Time)
	inner, outer := u.Inner.Vec3(), u.Outer.Vec3()
	d.Uniform3f(r.uniforms[UniformInnerColor], inner.X(), inner.Y(), inner.Z())
	d.Uniform3f(r.uniforms[UniformOuterColor], outer.X(), outer.Y(), outer.Z())

	d.DrawQuad(r.quad, int32(len(QuadVertices)/2))
}

// Release frees the quad and the program. Later calls do nothing.
func (r *Resources) Release() {
	if r.released {
		return
	}
	r.released = true
	r.dev.DeleteQuad(r.quad)
	r.dev.DeleteProgram(r.program)
}

// Released reports whether Release has run.
func (r *Resources) Released() bool { return r.released }
