package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
	"brender/gpu"
)

// GeometryData is one vertex/index group of a parsed model.
type GeometryData struct {
	Name         string
	MaterialName string
	Vertices     []core.Vertex
	Indices      []uint32
}

// Geometry is uploaded vertex and index data drawn with one material.
// It holds a reference on its material.
type Geometry struct {
	refCount
	dev      gpu.Device
	name     string
	buffers  gpu.Buffers
	material *Material
}

// NewGeometry uploads data. m may be nil, in which case Draw does nothing
// until a material is set.
func NewGeometry(dev gpu.Device, data GeometryData, m *Material) *Geometry {
	g := &Geometry{
		dev:     dev,
		name:    data.Name,
		buffers: dev.CreateBuffers(data.Vertices, data.Indices),
	}
	g.SetMaterial(m)
	g.refCount = newRefCount(func() {
		dev.DeleteBuffers(g.buffers)
		g.SetMaterial(nil)
	})
	return g
}

func (g *Geometry) Name() string         { return g.name }
func (g *Geometry) Material() *Material  { return g.material }
func (g *Geometry) IndexCount() int32    { return g.buffers.IndexCount }
func (g *Geometry) Buffers() gpu.Buffers { return g.buffers }

func (g *Geometry) SetMaterial(m *Material) {
	if m != nil {
		m.Retain()
	}
	if g.material != nil {
		g.material.Release()
	}
	g.material = m
}

// Draw binds the material, applies props over it and issues one indexed draw.
func (g *Geometry) Draw(props *Properties) {
	if g.material == nil || g.material.Shader() == nil {
		return
	}
	g.material.Bind(props)
	g.dev.BindBuffers(g.buffers)
	g.material.Shader().EnableAttributes()
	g.dev.DrawElements(g.buffers.IndexCount)
}

// QuadData returns a two-triangle quad spanning [-halfWidth, halfWidth] x
// [-halfHeight, halfHeight] in the XY plane, facing +Z. Texture row zero maps
// to the top edge.
func QuadData(name string, halfWidth, halfHeight float32) GeometryData {
	v := func(x, y, u, t float32) core.Vertex {
		return core.Vertex{
			Position:  mgl32.Vec3{x, y, 0},
			Normal:    mgl32.Vec3{0, 0, 1},
			Tangent:   mgl32.Vec3{1, 0, 0},
			Bitangent: mgl32.Vec3{0, 1, 0},
			TexCoord:  mgl32.Vec2{u, t},
		}
	}
	return GeometryData{
		Name: name,
		Vertices: []core.Vertex{
			v(-halfWidth, -halfHeight, 0, 1),
			v(halfWidth, -halfHeight, 1, 1),
			v(halfWidth, halfHeight, 1, 0),
			v(-halfWidth, halfHeight, 0, 0),
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
