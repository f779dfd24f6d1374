package gpu_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunglow/internal/colorx"
	"sunglow/internal/gpu"
	"sunglow/internal/gpu/gputest"
)

func TestNewResourcesCachesLocations(t *testing.T) {
	dev := gputest.New()
	r, err := gpu.NewResources(dev, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(0), r.Location(gpu.UniformResolution))
	assert.Equal(t, int32(4), r.Location(gpu.UniformCenter))
	assert.Equal(t, int32(-1), r.Location("u_unknown"))
	assert.Empty(t, dev.Shaders, "shaders are deleted once linked")
	require.Len(t, dev.Quads, 1)
	for _, v := range dev.Quads {
		assert.Equal(t, gpu.QuadVertices, v)
	}
}

func TestNewResourcesFailsFast(t *testing.T) {
	dev := gputest.New()
	dev.Fail, dev.FailStage = true, gpu.FragmentStage
	_, err := gpu.NewResources(dev, nil)
	assert.ErrorIs(t, err, gpu.ErrCompile)
	assert.Contains(t, err.Error(), "fragment")
	assert.Empty(t, dev.Shaders)

	dev = gputest.New()
	dev.Fail, dev.FailLink = true, true
	_, err = gpu.NewResources(dev, nil)
	assert.ErrorIs(t, err, gpu.ErrLink)
	assert.Empty(t, dev.Shaders)
	assert.Empty(t, dev.Programs)

	dev = gputest.New()
	dev.Missing[gpu.AttribPosition] = true
	_, err = gpu.NewResources(dev, nil)
	assert.ErrorIs(t, err, gpu.ErrLink)
	assert.Empty(t, dev.Programs)
}

func TestNewResourcesToleratesMissingUniform(t *testing.T) {
	dev := gputest.New()
	dev.Missing[gpu.UniformTime] = true
	r, err := gpu.NewResources(dev, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), r.Location(gpu.UniformTime))
}

func TestDrawPushesUniforms(t *testing.T) {
	dev := gputest.New()
	r, err := gpu.NewResources(dev, nil)
	require.NoError(t, err)

	r.Draw(gpu.Uniforms{
		Resolution: mgl32.Vec2{960, 540},
		Time:       2.5,
		Inner:      colorx.RGB{1, 0.9, 0.5},
		Outer:      colorx.RGB{0.8, 0.3, 0.1},
		Center:     mgl32.Vec2{0.5, 0.2},
	})

	assert.Equal(t, 1, dev.Draws)
	assert.Equal(t, 1, dev.Clears)
	assert.Equal(t, []float32{960, 540}, dev.Last(r.Location(gpu.UniformResolution)))
	assert.Equal(t, []float32{2.5}, dev.Last(r.Location(gpu.UniformTime)))
	assert.Equal(t, []float32{1, 0.9, 0.5}, dev.Last(r.Location(gpu.UniformInnerColor)))
	assert.Equal(t, []float32{0.8, 0.3, 0.1}, dev.Last(r.Location(gpu.UniformOuterColor)))
	assert.Equal(t, []float32{0.5, 0.2}, dev.Last(r.Location(gpu.UniformCenter)))
}

func TestReleaseOnce(t *testing.T) {
	dev := gputest.New()
	r, err := gpu.NewResources(dev, nil)
	require.NoError(t, err)

	r.Release()
	r.Release()
	assert.True(t, r.Released())
	assert.Equal(t, 1, dev.DeletedPrograms)
	assert.Equal(t, 1, dev.DeletedQuads)

	r.Draw(gpu.Uniforms{})
	assert.Zero(t, dev.Draws)
}

func TestEmbeddedShaders(t *testing.T) {
	assert.Contains(t, gpu.VertexSource, gpu.AttribPosition)
	for _, name := range []string{
		gpu.UniformResolution, gpu.UniformTime, gpu.UniformInnerColor,
		gpu.UniformOuterColor, gpu.UniformCenter,
	} {
		assert.Contains(t, gpu.FragmentSource, name)
	}
	assert.Equal(t, "vertex", gpu.VertexStage.String())
}
