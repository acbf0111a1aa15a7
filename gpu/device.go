// Package gpu declares the GPU primitives the engine is written against.
//
// Everything above this package treats binds, uploads and draws as
// always-successful side effects. Program compile and link are the only
// operations whose failure is observable.
package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
)

var (
	ErrCompile = errors.New("shader compile failed")
	ErrLink    = errors.New("program link failed")
	// ErrFramebuffer is returned when a framebuffer is not complete after attachment.
	ErrFramebuffer = errors.New("framebuffer incomplete")
)

type BlendFactor uint32

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

var blendNames = [...]string{
	"ZERO", "ONE", "SRC_COLOR", "ONE_MINUS_SRC_COLOR", "DST_COLOR",
	"ONE_MINUS_DST_COLOR", "SRC_ALPHA", "ONE_MINUS_SRC_ALPHA", "DST_ALPHA", "ONE_MINUS_DST_ALPHA",
}

func (b BlendFactor) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return "UNKNOWN"
}

// Default blend state restored after every transparent pass.
const (
	DefaultBlendSrc = BlendSrcAlpha
	DefaultBlendDst = BlendOneMinusSrcAlpha
)

type TextureFormat int

const (
	FormatRGBA TextureFormat = iota
	FormatRGB
	// FormatRed is a single 8-bit channel, used for glyph coverage.
	FormatRed
)

// BytesPerPixel returns the pixel stride of tightly packed data in format f.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatRGB:
		return 3
	case FormatRed:
		return 1
	default:
		return 4
	}
}

type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCubeMap
)

// Image is raw decoded pixel data handed to the device for upload.
type Image struct {
	Width  int
	Height int
	Format TextureFormat
	// Pixels are row-major, top-to-bottom. Nil allocates uninitialised storage.
	Pixels []byte
}

// Buffers are the vertex array and buffer objects of one uploaded geometry.
type Buffers struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

type Viewport struct {
	X, Y, Width, Height int32
}

// Device is the GPU command surface.
type Device interface {
	// CreateProgram compiles and links a program. Failures wrap ErrCompile or ErrLink
	// and carry the driver's info log.
	CreateProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32
	MaxTextureUnits() int32

	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform3f(loc int32, v mgl32.Vec3)
	Uniform4f(loc int32, v mgl32.Vec4)
	UniformMatrix3(loc int32, m mgl32.Mat3)
	UniformMatrix4(loc int32, m mgl32.Mat4)

	CreateBuffers(vertices []core.Vertex, indices []uint32) Buffers
	DeleteBuffers(b Buffers)
	BindBuffers(b Buffers)
	VertexAttrib(loc uint32, size int32, stride int32, offset int)
	DrawElements(count int32)

	CreateTexture(img Image) uint32
	CreateCubeMap(faces [6]Image) uint32
	CreateDepthTexture(width, height int) uint32
	// ResizeTexture reallocates the storage of a 2D RGBA texture.
	ResizeTexture(tex uint32, width, height int)
	DeleteTexture(tex uint32)
	BindTexture(unit int32, target TextureTarget, tex uint32)

	CreateFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(fbo uint32)
	CurrentFramebuffer() uint32
	CreateDepthRenderbuffer(width, height int) uint32
	ResizeDepthRenderbuffer(rb uint32, width, height int)
	DeleteRenderbuffer(rb uint32)
	AttachColorTexture(tex uint32)
	AttachDepthTexture(tex uint32)
	AttachDepthRenderbuffer(rb uint32)
	CheckFramebuffer() error

	Viewport() Viewport
	SetViewport(v Viewport)
	Clear(color core.Color)

	// InitState enables depth testing (LEQUAL), back-face culling and alpha blending.
	InitState()
	BlendFunc(src, dst BlendFactor)
}
