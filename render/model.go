package render

import "brender/gpu"

// Model is a mesh made of named geometry groups, drawn in insertion order.
type Model struct {
	refCount
	name       string
	groups     []string
	geometries map[string]*Geometry
}

// ModelData is the output of a geometry parser: ordered groups and the
// materials they name. Images holds decoded textures that live inside the
// model file, keyed by the name materials use for them.
type ModelData struct {
	Name      string
	Groups    []GeometryData
	Materials map[string]MaterialData
	Images    map[string]gpu.Image
}

func NewModel(name string) *Model {
	m := &Model{name: name, geometries: make(map[string]*Geometry)}
	m.refCount = newRefCount(func() {
		for _, g := range m.geometries {
			g.Release()
		}
		clear(m.geometries)
		m.groups = nil
	})
	return m
}

func (m *Model) drawable() {}

func (m *Model) Name() string { return m.name }

// AddGeometry stores g under group, taking over the caller's reference.
// An existing group of the same name is released and replaced.
func (m *Model) AddGeometry(group string, g *Geometry) {
	if old, ok := m.geometries[group]; ok {
		old.Release()
	} else {
		m.groups = append(m.groups, group)
	}
	m.geometries[group] = g
}

func (m *Model) Geometry(group string) (*Geometry, bool) {
	g, ok := m.geometries[group]
	return g, ok
}

// Groups returns the group names in insertion order.
func (m *Model) Groups() []string {
	return append([]string(nil), m.groups...)
}

func (m *Model) Geometries() []*Geometry {
	out := make([]*Geometry, 0, len(m.groups))
	for _, name := range m.groups {
		out = append(out, m.geometries[name])
	}
	return out
}

// Draw draws every group with the same instance properties.
func (m *Model) Draw(props *Properties) {
	for _, name := range m.groups {
		m.geometries[name].Draw(props)
	}
}
