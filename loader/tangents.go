package loader

import (
	"github.com/go-gl/mathgl/mgl32"

	"brender/render"
)

// GenerateNormals computes area-weighted vertex normals.
func GenerateNormals(g *render.GeometryData) {
	accum := make([]mgl32.Vec3, len(g.Vertices))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		i0, i1, i2 := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		v0 := g.Vertices[i0].Position
		v1 := g.Vertices[i1].Position
		v2 := g.Vertices[i2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range g.Vertices {
		if accum[i].Len() > 0 {
			g.Vertices[i].Normal = accum[i].Normalize()
		} else {
			g.Vertices[i].Normal = mgl32.Vec3{0, 1, 0}
		}
	}
}

// ComputeTangents generates per-vertex tangent and bitangent vectors for
// tangent-space normal mapping. Triangles with a degenerate UV area are
// skipped.
func ComputeTangents(g *render.GeometryData) {
	for i := range g.Vertices {
		g.Vertices[i].Tangent = mgl32.Vec3{}
		g.Vertices[i].Bitangent = mgl32.Vec3{}
	}

	accum := func(i0, i1, i2 uint32) {
		v0, v1, v2 := g.Vertices[i0], g.Vertices[i1], g.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1 := v1.TexCoord[0] - v0.TexCoord[0]
		dv1 := v1.TexCoord[1] - v0.TexCoord[1]
		du2 := v2.TexCoord[0] - v0.TexCoord[0]
		dv2 := v2.TexCoord[1] - v0.TexCoord[1]

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			return
		}
		r := 1 / denom
		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))
		b := e2.Mul(du1 * r).Sub(e1.Mul(du2 * r))

		for _, i := range [3]uint32{i0, i1, i2} {
			g.Vertices[i].Tangent = g.Vertices[i].Tangent.Add(t)
			g.Vertices[i].Bitangent = g.Vertices[i].Bitangent.Add(b)
		}
	}

	if len(g.Indices) > 0 {
		for i := 0; i+2 < len(g.Indices); i += 3 {
			accum(g.Indices[i], g.Indices[i+1], g.Indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(g.Vertices); i += 3 {
			accum(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	// Gram-Schmidt orthogonalize and normalize each vertex tangent frame.
	for i := range g.Vertices {
		n := g.Vertices[i].Normal
		t := g.Vertices[i].Tangent
		b := g.Vertices[i].Bitangent

		t = t.Sub(n.Mul(n.Dot(t)))
		if t.LenSqr() < 1e-8 {
			// Degenerate: choose an arbitrary tangent perpendicular to N.
			if mgl32.Abs(n[0]) < 0.9 {
				t = mgl32.Vec3{1, 0, 0}.Sub(n.Mul(n[0]))
			} else {
				t = mgl32.Vec3{0, 1, 0}.Sub(n.Mul(n[1]))
			}
		}
		g.Vertices[i].Tangent = t.Normalize()

		if b.LenSqr() < 1e-8 {
			b = n.Cross(g.Vertices[i].Tangent)
		}
		g.Vertices[i].Bitangent = b.Normalize()
	}
}
