package loader

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
	"brender/render"
)

// Procedural geometry. Every generator fills tangents so the results can be
// used with normal-mapped materials. For a flat quad see render.QuadData.

// cubeFaces lists the normal and the two in-plane axes (u, v) of each face.
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
}

// Cube returns an axis-aligned cube with the given edge length and four
// vertices per face.
func Cube(name, material string, size float32) render.GeometryData {
	s := size / 2
	g := render.GeometryData{Name: name, MaterialName: material}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(g.Vertices))
		for _, c := range [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
			p := n.Add(u.Mul(c[0]*2 - 1)).Add(v.Mul(c[1]*2 - 1)).Mul(s)
			g.Vertices = append(g.Vertices, core.Vertex{Position: p, Normal: n, TexCoord: c})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	ComputeTangents(&g)
	return g
}

// Plane returns a subdivided plane in the xz plane facing +y.
func Plane(name, material string, width, depth float32, subdivisions int) render.GeometryData {
	if subdivisions < 1 {
		subdivisions = 1
	}
	g := render.GeometryData{Name: name, MaterialName: material}
	halfW, halfD := width/2, depth/2
	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			g.Vertices = append(g.Vertices, core.Vertex{
				Position: mgl32.Vec3{-halfW + u*width, 0, halfD - v*depth},
				Normal:   mgl32.Vec3{0, 1, 0},
				TexCoord: mgl32.Vec2{u, v},
			})
		}
	}
	row := uint32(subdivisions + 1)
	for z := uint32(0); z < uint32(subdivisions); z++ {
		for x := uint32(0); x < uint32(subdivisions); x++ {
			bl := z*row + x
			br := bl + 1
			tl := bl + row
			tr := tl + 1
			g.Indices = append(g.Indices, bl, br, tr, tr, tl, bl)
		}
	}
	ComputeTangents(&g)
	return g
}

// Sphere returns a UV sphere. segments and rings are clamped to 3 and 2.
func Sphere(name, material string, radius float32, segments, rings int) render.GeometryData {
	segments = max(segments, 3)
	rings = max(rings, 2)
	g := render.GeometryData{Name: name, MaterialName: material}
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * math.Pi / float64(rings)
		sinPhi, cosPhi := float32(math.Sin(phi)), float32(math.Cos(phi))
		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * math.Pi / float64(segments)
			sinTheta, cosTheta := float32(math.Sin(theta)), float32(math.Cos(theta))
			n := mgl32.Vec3{sinPhi * cosTheta, cosPhi, -sinPhi * sinTheta}
			g.Vertices = append(g.Vertices, core.Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				TexCoord: mgl32.Vec2{float32(seg) / float32(segments), 1 - float32(ring)/float32(rings)},
			})
		}
	}
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			cur := uint32(ring*(segments+1) + seg)
			next := cur + uint32(segments+1)
			g.Indices = append(g.Indices, cur, next, cur+1, cur+1, next, next+1)
		}
	}
	ComputeTangents(&g)
	return g
}

// Primitive wraps a single generated geometry into model data.
func Primitive(name string, g render.GeometryData, material render.MaterialData) render.ModelData {
	if g.MaterialName == "" {
		g.MaterialName = material.Name
	}
	data := render.ModelData{Name: name, Groups: []render.GeometryData{g}}
	if material.Name != "" {
		data.Materials = map[string]render.MaterialData{material.Name: material}
	}
	return data
}
