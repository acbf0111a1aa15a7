package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"brender/core"
	"brender/gpu"
	"brender/internal/logger"
	"brender/shader"
)

type attribute struct {
	name   string
	size   int32
	offset int
	loc    int32
}

var vertexStride = int32(unsafe.Sizeof(core.Vertex{}))

// vertexAttributes is the interleaved layout of core.Vertex.
func vertexAttributes() []attribute {
	var v core.Vertex
	return []attribute{
		{name: shader.AttribPosition, size: 3, offset: int(unsafe.Offsetof(v.Position))},
		{name: shader.AttribNormal, size: 3, offset: int(unsafe.Offsetof(v.Normal))},
		{name: shader.AttribTangent, size: 3, offset: int(unsafe.Offsetof(v.Tangent))},
		{name: shader.AttribBitangent, size: 3, offset: int(unsafe.Offsetof(v.Bitangent))},
		{name: shader.AttribTexCoord, size: 2, offset: int(unsafe.Offsetof(v.TexCoord))},
	}
}

// ShaderState is the build stage of a shader program.
type ShaderState int

const (
	ShaderUncompiled ShaderState = iota
	ShaderCompiling
	ShaderLinked
	ShaderFailed
)

func (st ShaderState) String() string {
	switch st {
	case ShaderUncompiled:
		return "uncompiled"
	case ShaderCompiling:
		return "compiling"
	case ShaderLinked:
		return "linked"
	case ShaderFailed:
		return "failed"
	}
	return fmt.Sprintf("ShaderState(%d)", int(st))
}

// Shader is a linked GPU program with a lazy uniform location cache.
type Shader struct {
	refCount
	dev       gpu.Device
	program   uint32
	maxLights uint
	state     ShaderState

	uniforms    map[string]int32
	attributes  []attribute
	textureUnit int32
}

// NewShader compiles and links src. A failed compile or link returns an
// error wrapping gpu.ErrCompile or gpu.ErrLink and no program; failed
// programs are never handed out.
func NewShader(dev gpu.Device, src shader.Source, maxLights uint) (*Shader, error) {
	s := &Shader{
		dev:        dev,
		maxLights:  maxLights,
		uniforms:   make(map[string]int32),
		attributes: vertexAttributes(),
	}
	if err := s.link(src); err != nil {
		return nil, err
	}
	s.refCount = newRefCount(func() {
		dev.DeleteProgram(s.program)
		s.program = 0
	})
	return s, nil
}

// link moves s from Uncompiled through Compiling to Linked or Failed.
func (s *Shader) link(src shader.Source) error {
	if s.state != ShaderUncompiled {
		return fmt.Errorf("link shader: already %v", s.state)
	}
	s.state = ShaderCompiling
	program, err := s.dev.CreateProgram(src.Vertex, src.Fragment)
	if err != nil {
		s.state = ShaderFailed
		return fmt.Errorf("create shader program: %w", err)
	}
	s.program = program
	for i := range s.attributes {
		s.attributes[i].loc = s.dev.AttribLocation(program, s.attributes[i].name)
	}
	s.state = ShaderLinked
	return nil
}

// State returns the build stage of the program.
func (s *Shader) State() ShaderState { return s.state }

func (s *Shader) Program() uint32 { return s.program }

// MaxLights is the number of light slots compiled into the program.
func (s *Shader) MaxLights() uint { return s.maxLights }

// Bind makes the program current and restarts texture unit assignment.
func (s *Shader) Bind() {
	s.dev.UseProgram(s.program)
	s.textureUnit = 0
}

// UniformLocation returns the cached location of name, querying the device
// at most once per name. Absent uniforms are cached as -1.
func (s *Shader) UniformLocation(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := s.dev.UniformLocation(s.program, name)
	s.uniforms[name] = loc
	return loc
}

// HasUniform reports whether the program uses name.
func (s *Shader) HasUniform(name string) bool {
	return s.UniformLocation(name) >= 0
}

// Setting an absent uniform is a no-op.

func (s *Shader) SetFloat(name string, v float32) {
	if loc := s.UniformLocation(name); loc >= 0 {
		s.dev.Uniform1f(loc, v)
	}
}

func (s *Shader) SetVector3(name string, v mgl32.Vec3) {
	if loc := s.UniformLocation(name); loc >= 0 {
		s.dev.Uniform3f(loc, v)
	}
}

func (s *Shader) SetVector4(name string, v mgl32.Vec4) {
	if loc := s.UniformLocation(name); loc >= 0 {
		s.dev.Uniform4f(loc, v)
	}
}

func (s *Shader) SetMatrix3(name string, m mgl32.Mat3) {
	if loc := s.UniformLocation(name); loc >= 0 {
		s.dev.UniformMatrix3(loc, m)
	}
}

func (s *Shader) SetMatrix4(name string, m mgl32.Mat4) {
	if loc := s.UniformLocation(name); loc >= 0 {
		s.dev.UniformMatrix4(loc, m)
	}
}

func (s *Shader) SetTexture(name string, t *Texture) {
	s.bindSampler(name, gpu.Texture2D, t.id)
}

func (s *Shader) SetCubeMap(name string, c *CubeMap) {
	s.bindSampler(name, gpu.TextureCubeMap, c.id)
}

func (s *Shader) SetDepthMap(name string, d *DepthMap) {
	s.bindSampler(name, gpu.Texture2D, d.id)
}

// bindSampler binds tex to the next free texture unit and points the
// sampler uniform at it.
func (s *Shader) bindSampler(name string, target gpu.TextureTarget, tex uint32) {
	loc := s.UniformLocation(name)
	if loc < 0 {
		return
	}
	if s.textureUnit >= s.dev.MaxTextureUnits() {
		logger.Log.Warn("out of texture units", zap.String("uniform", name), zap.Int32("units", s.textureUnit))
		return
	}
	s.dev.BindTexture(s.textureUnit, target, tex)
	s.dev.Uniform1i(loc, s.textureUnit)
	s.textureUnit++
}

// EnableAttributes points the program's attributes at the bound vertex buffer.
func (s *Shader) EnableAttributes() {
	for _, a := range s.attributes {
		if a.loc >= 0 {
			s.dev.VertexAttrib(uint32(a.loc), a.size, vertexStride, a.offset)
		}
	}
}
