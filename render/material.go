package render

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// MaterialData is the CPU description of a material as read from a
// material library. Textures map sampler uniforms to image files.
type MaterialData struct {
	Name     string
	Textures map[string]string
	Vectors  map[string]mgl32.Vec3
	Scalars  map[string]float32
}

func (m MaterialData) HasTexture(name string) bool { _, ok := m.Textures[name]; return ok }
func (m MaterialData) HasVector(name string) bool  { _, ok := m.Vectors[name]; return ok }
func (m MaterialData) HasScalar(name string) bool  { _, ok := m.Scalars[name]; return ok }

// Material pairs a shader with the textures and values bound before drawing.
// It holds a reference on its shader and every texture it uses.
type Material struct {
	refCount
	name   string
	shader *Shader

	textures  map[string]*Texture
	cubeMaps  map[string]*CubeMap
	depthMaps map[string]*DepthMap
	vectors   map[string]mgl32.Vec3
	scalars   map[string]float32
}

// NewMaterial creates an empty material using s, which may be nil.
func NewMaterial(name string, s *Shader) *Material {
	m := &Material{
		name:      name,
		textures:  make(map[string]*Texture),
		cubeMaps:  make(map[string]*CubeMap),
		depthMaps: make(map[string]*DepthMap),
		vectors:   make(map[string]mgl32.Vec3),
		scalars:   make(map[string]float32),
	}
	m.SetShader(s)
	m.refCount = newRefCount(m.releaseAll)
	return m
}

func (m *Material) releaseAll() {
	if m.shader != nil {
		m.shader.Release()
		m.shader = nil
	}
	for _, t := range m.textures {
		t.Release()
	}
	for _, c := range m.cubeMaps {
		c.Release()
	}
	for _, d := range m.depthMaps {
		d.Release()
	}
	clear(m.textures)
	clear(m.cubeMaps)
	clear(m.depthMaps)
}

func (m *Material) Name() string    { return m.name }
func (m *Material) Shader() *Shader { return m.shader }

func (m *Material) SetShader(s *Shader) {
	if s != nil {
		s.Retain()
	}
	if m.shader != nil {
		m.shader.Release()
	}
	m.shader = s
}

func (m *Material) SetTexture(name string, t *Texture) {
	t.Retain()
	if old, ok := m.textures[name]; ok {
		old.Release()
	}
	m.textures[name] = t
}

func (m *Material) SetCubeMap(name string, c *CubeMap) {
	c.Retain()
	if old, ok := m.cubeMaps[name]; ok {
		old.Release()
	}
	m.cubeMaps[name] = c
}

func (m *Material) SetDepthMap(name string, d *DepthMap) {
	d.Retain()
	if old, ok := m.depthMaps[name]; ok {
		old.Release()
	}
	m.depthMaps[name] = d
}

func (m *Material) SetVector(name string, v mgl32.Vec3) { m.vectors[name] = v }
func (m *Material) SetScalar(name string, v float32)    { m.scalars[name] = v }

func (m *Material) Texture(name string) (*Texture, bool) {
	t, ok := m.textures[name]
	return t, ok
}

func (m *Material) Vector(name string) (mgl32.Vec3, bool) {
	v, ok := m.vectors[name]
	return v, ok
}

func (m *Material) Scalar(name string) (float32, bool) {
	v, ok := m.scalars[name]
	return v, ok
}

// Bind makes the shader current and uploads textures, then vectors, then
// scalars, each in name order. Properties are applied last so their values
// override the material's.
func (m *Material) Bind(props ...*Properties) {
	s := m.shader
	if s == nil {
		return
	}
	s.Bind()
	for _, name := range slices.Sorted(maps.Keys(m.textures)) {
		s.SetTexture(name, m.textures[name])
	}
	for _, name := range slices.Sorted(maps.Keys(m.cubeMaps)) {
		s.SetCubeMap(name, m.cubeMaps[name])
	}
	for _, name := range slices.Sorted(maps.Keys(m.depthMaps)) {
		s.SetDepthMap(name, m.depthMaps[name])
	}
	for _, name := range slices.Sorted(maps.Keys(m.vectors)) {
		s.SetVector3(name, m.vectors[name])
	}
	for _, name := range slices.Sorted(maps.Keys(m.scalars)) {
		s.SetFloat(name, m.scalars[name])
	}
	for _, p := range props {
		if p != nil {
			p.Apply(s)
		}
	}
}
