package render

import "brender/gpu"

// Sprite is a textured unit quad.
type Sprite struct {
	refCount
	name     string
	geometry *Geometry
}

// NewSprite builds the quad and draws it with material.
func NewSprite(dev gpu.Device, name string, material *Material) *Sprite {
	s := &Sprite{name: name, geometry: NewGeometry(dev, QuadData(name, 1, 1), material)}
	s.refCount = newRefCount(func() { s.geometry.Release() })
	return s
}

func (s *Sprite) drawable() {}

func (s *Sprite) Name() string            { return s.name }
func (s *Sprite) Material() *Material     { return s.geometry.Material() }
func (s *Sprite) Geometries() []*Geometry { return []*Geometry{s.geometry} }
func (s *Sprite) Draw(props *Properties)  { s.geometry.Draw(props) }
