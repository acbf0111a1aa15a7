package render

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Properties is a named set of per-draw uniform values, such as the
// matrices of one instance.
type Properties struct {
	name    string
	mat4    map[string]mgl32.Mat4
	mat3    map[string]mgl32.Mat3
	vec4    map[string]mgl32.Vec4
	vec3    map[string]mgl32.Vec3
	scalars map[string]float32
}

func NewProperties(name string) *Properties {
	return &Properties{
		name:    name,
		mat4:    make(map[string]mgl32.Mat4),
		mat3:    make(map[string]mgl32.Mat3),
		vec4:    make(map[string]mgl32.Vec4),
		vec3:    make(map[string]mgl32.Vec3),
		scalars: make(map[string]float32),
	}
}

func (p *Properties) Name() string { return p.name }

func (p *Properties) SetMatrix4(name string, m mgl32.Mat4) { p.mat4[name] = m }
func (p *Properties) SetMatrix3(name string, m mgl32.Mat3) { p.mat3[name] = m }
func (p *Properties) SetVector4(name string, v mgl32.Vec4) { p.vec4[name] = v }
func (p *Properties) SetVector3(name string, v mgl32.Vec3) { p.vec3[name] = v }
func (p *Properties) SetScalar(name string, v float32)     { p.scalars[name] = v }

func (p *Properties) Matrix4(name string) (mgl32.Mat4, bool) {
	m, ok := p.mat4[name]
	return m, ok
}

func (p *Properties) Scalar(name string) (float32, bool) {
	v, ok := p.scalars[name]
	return v, ok
}

// Apply uploads the values to s: 4x4 matrices, 3x3 matrices, 4-vectors,
// 3-vectors, then scalars, each in name order.
func (p *Properties) Apply(s *Shader) {
	for _, name := range slices.Sorted(maps.Keys(p.mat4)) {
		s.SetMatrix4(name, p.mat4[name])
	}
	for _, name := range slices.Sorted(maps.Keys(p.mat3)) {
		s.SetMatrix3(name, p.mat3[name])
	}
	for _, name := range slices.Sorted(maps.Keys(p.vec4)) {
		s.SetVector4(name, p.vec4[name])
	}
	for _, name := range slices.Sorted(maps.Keys(p.vec3)) {
		s.SetVector3(name, p.vec3[name])
	}
	for _, name := range slices.Sorted(maps.Keys(p.scalars)) {
		s.SetFloat(name, p.scalars[name])
	}
}
