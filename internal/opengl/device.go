// Package opengl implements gpu.Device on OpenGL 4.1 core.
// Every method must be called from the goroutine owning the GL context.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"brender/core"
	"brender/gpu"
	"brender/internal/logger"
)

// Device issues GL calls for the engine.
type Device struct {
	maxTexUnits int32
}

// NewDevice initialises the GL function pointers.
// Must be called after the GLFW window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	glsl := gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
	logger.System("OpenGL initialized", zap.String("version", version), zap.String("glsl", glsl))

	d := &Device{}
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &d.maxTexUnits)
	return d, nil
}

// ── Programs ──────────────────────────────────────────────────────────────────

func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	return newProgram(vertexSrc, fragmentSrc)
}

func (d *Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) MaxTextureUnits() int32 {
	return d.maxTexUnits
}

func (d *Device) Uniform1i(loc int32, v int32)      { gl.Uniform1i(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)    { gl.Uniform1f(loc, v) }
func (d *Device) Uniform3f(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v[0], v[1], v[2]) }
func (d *Device) Uniform4f(loc int32, v mgl32.Vec4) { gl.Uniform4f(loc, v[0], v[1], v[2], v[3]) }

func (d *Device) UniformMatrix3(loc int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(loc, 1, false, &m[0])
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// ── Viewport and state ────────────────────────────────────────────────────────

func (d *Device) Viewport() gpu.Viewport {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return gpu.Viewport{X: vp[0], Y: vp[1], Width: vp[2], Height: vp[3]}
}

func (d *Device) SetViewport(v gpu.Viewport) {
	gl.Viewport(v.X, v.Y, v.Width, v.Height)
}

func (d *Device) Clear(color core.Color) {
	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) InitState() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.CULL_FACE)

	gl.Enable(gl.BLEND)
	d.BlendFunc(gpu.DefaultBlendSrc, gpu.DefaultBlendDst)
}

func (d *Device) BlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(glBlend(src), glBlend(dst))
}

func glBlend(f gpu.BlendFactor) uint32 {
	switch f {
	case gpu.BlendZero:
		return gl.ZERO
	case gpu.BlendOne:
		return gl.ONE
	case gpu.BlendSrcColor:
		return gl.SRC_COLOR
	case gpu.BlendOneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case gpu.BlendDstColor:
		return gl.DST_COLOR
	case gpu.BlendOneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case gpu.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case gpu.BlendDstAlpha:
		return gl.DST_ALPHA
	case gpu.BlendOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ONE_MINUS_SRC_ALPHA
	}
}

var _ gpu.Device = (*Device)(nil)
