package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
)

// Plane represents the half-space Normal·p + D >= 0.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from pt to the plane, positive on
// the inside.
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // left, right, bottom, top, near, far
}

// FrustumFromMatrix extracts normalized clip planes from a
// view-projection matrix (Gribb/Hartmann).
func FrustumFromMatrix(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0))
	f.Planes[1] = normalizePlane(r3.Sub(r0))
	f.Planes[2] = normalizePlane(r3.Add(r1))
	f.Planes[3] = normalizePlane(r3.Sub(r1))
	f.Planes[4] = normalizePlane(r3.Add(r2))
	f.Planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

// Frustum returns the camera's world-space view frustum.
func (c *Camera) Frustum() Frustum {
	return FrustumFromMatrix(c.ViewProjectionMatrix())
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v[3] / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// ComputeAABB returns the tight box around the vertex positions.
func ComputeAABB(vertices []core.Vertex) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}
	box := AABB{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		box = box.extend(v.Position)
	}
	return box
}

func (box AABB) extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		box.Min[i] = min(box.Min[i], p[i])
		box.Max[i] = max(box.Max[i], p[i])
	}
	return box
}

// Center is the midpoint of the box.
func (box AABB) Center() mgl32.Vec3 {
	return box.Min.Add(box.Max).Mul(0.5)
}

// Transform returns the box enclosing all eight transformed corners.
func (box AABB) Transform(m mgl32.Mat4) AABB {
	mn, mx := box.Min, box.Max
	corners := [8]mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mx[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
	first := mgl32.TransformCoordinate(corners[0], m)
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		out = out.extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// IntersectsFrustum reports false only when the box lies completely
// outside one of the planes. For each plane the corner furthest along the
// normal is tested.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		var pv mgl32.Vec3
		for i := 0; i < 3; i++ {
			if p.Normal[i] < 0 {
				pv[i] = box.Min[i]
			} else {
				pv[i] = box.Max[i]
			}
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}
