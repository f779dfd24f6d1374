// Package gputest provides an in-memory gpu.Device for tests.
package gputest

import (
	"fmt"

	"sunglow/internal/gpu"
)

// Call is one recorded uniform upload.
type Call struct {
	Location int32
	Values   []float32
}

// Device records what the renderer asks of the GPU. Compile and link can be
// made to fail, and uniforms can be hidden to mimic a driver optimising them
// out.
type Device struct {
	FailStage gpu.Stage
	FailLink  bool
	Fail      bool
	Missing   map[string]bool

	next     uint32
	Shaders  map[uint32]gpu.Stage
	Programs map[uint32]bool
	Quads    map[uint32][]float32

	DeletedPrograms int
	DeletedQuads    int
	Draws           int
	Clears          int
	Uniforms        []Call
	QuadAttrib      int32
}

func New() *Device {
	return &Device{
		Shaders:  make(map[uint32]gpu.Stage),
		Programs: make(map[uint32]bool),
		Quads:    make(map[uint32][]float32),
		Missing:  make(map[string]bool),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (uint32, error) {
	if d.Fail && !d.FailLink && stage == d.FailStage {
		return 0, fmt.Errorf("%w: %s shader: 0:1: syntax error", gpu.ErrCompile, stage)
	}
	h := d.handle()
	d.Shaders[h] = stage
	return h, nil
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, error) {
	if d.Fail && d.FailLink {
		return 0, fmt.Errorf("%w: varying mismatch", gpu.ErrLink)
	}
	h := d.handle()
	d.Programs[h] = true
	return h, nil
}

func (d *Device) DeleteShader(shader uint32) { delete(d.Shaders, shader) }

func (d *Device) DeleteProgram(program uint32) {
	delete(d.Programs, program)
	d.DeletedPrograms++
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if d.Missing[name] {
		return -1
	}
	switch name {
	case gpu.UniformResolution:
		return 0
	case gpu.UniformTime:
		return 1
	case gpu.UniformInnerColor:
		return 2
	case gpu.UniformOuterColor:
		return 3
	case gpu.UniformCenter:
		return 4
	}
	return -1
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	if d.Missing[name] || name != gpu.AttribPosition {
		return -1
	}
	return 0
}

func (d *Device) NewQuad(vertices []float32, attrib int32) uint32 {
	h := d.handle()
	d.Quads[h] = append([]float32(nil), vertices...)
	d.QuadAttrib = attrib
	return h
}

func (d *Device) DeleteQuad(quad uint32) {
	delete(d.Quads, quad)
	d.DeletedQuads++
}

func (d *Device) UseProgram(program uint32) {}

func (d *Device) Uniform1f(location int32, v float32) {
	d.Uniforms = append(d.Uniforms, Call{location, []float32{v}})
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	d.Uniforms = append(d.Uniforms, Call{location, []float32{x, y}})
}

func (d *Device) Uniform3f(location int32, x, y, z float32) {
	d.Uniforms = append(d.Uniforms, Call{location, []float32{x, y, z}})
}

func (d *Device) Clear(r, g, b, a float32) { d.Clears++ }

func (d *Device) DrawQuad(quad uint32, vertices int32) {
	if _, ok := d.Quads[quad]; ok && vertices == 6 {
		d.Draws++
	}
}

// Last returns the most recent value uploaded to location.
func (d *Device) Last(location int32) []float32 {
	for i := len(d.Uniforms) - 1; i >= 0; i-- {
		if d.Uniforms[i].Location == location {
			return d.Uniforms[i].Values
		}
	}
	return nil
}
