// Package glcore implements gpu.Device on an OpenGL 3.3 core context. All
// methods must be called on the thread that owns the current context.
package glcore

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"sunglow/internal/gpu"
)

// Init loads the OpenGL function pointers for the current context.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initialize OpenGL: %w", err)
	}
	gl.Disable(gl.DEPTH_TEST)
	return nil
}

// Version returns the driver's version string.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Device issues gpu.Device calls against the current context.
type Device struct {
	// vertex array -> its vertex buffer
	buffers map[uint32]uint32
}

func NewDevice() *Device {
	return &Device{buffers: make(map[uint32]uint32)}
}

func glStage(s gpu.Stage) uint32 {
	if s == gpu.FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (uint32, error) {
	shader := gl.CreateShader(glStage(stage))
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logMsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logMsg))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s shader: %s", gpu.ErrCompile, stage, trimLog(logMsg))
	}
	return shader, nil
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logMsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logMsg))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", gpu.ErrLink, trimLog(logMsg))
	}

	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)
	return program, nil
}

func trimLog(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func (d *Device) DeleteShader(shader uint32)   { gl.DeleteShader(shader) }
func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) NewQuad(vertices []float32, attrib int32) uint32 {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(uint32(attrib), 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(uint32(attrib))

	gl.BindVertexArray(0)
	d.buffers[vao] = vbo
	return vao
}

func (d *Device) DeleteQuad(quad uint32) {
	if vbo, ok := d.buffers[quad]; ok {
		gl.DeleteBuffers(1, &vbo)
		delete(d.buffers, quad)
	}
	gl.DeleteVertexArrays(1, &quad)
}

func (d *Device) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *Device) Uniform1f(location int32, v float32)       { gl.Uniform1f(location, v) }
func (d *Device) Uniform2f(location int32, x, y float32)    { gl.Uniform2f(location, x, y) }
func (d *Device) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) DrawQuad(quad uint32, vertices int32) {
	gl.BindVertexArray(quad)
	gl.DrawArrays(gl.TRIANGLES, 0, vertices)
	gl.BindVertexArray(0)
}
