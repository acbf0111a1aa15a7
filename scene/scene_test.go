package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
)

const epsilon = 1e-4

// near compares component-wise against an absolute tolerance. mgl32's
// ApproxEqualThreshold is relative and breaks down next to zero.
func near[V ~[3]float32 | ~[4]float32 | ~[16]float32](a, b V) bool {
	for i := 0; i < len(a); i++ {
		if mgl32.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

func TestCameraDefaults(t *testing.T) {
	c := DefaultCamera()
	if c.FOV != 60 || c.AspectRatio != float32(4.0/3.0) || c.NearPlane != -1 || c.FarPlane != 1 {
		t.Errorf("unexpected defaults %+v", c)
	}
	if !c.Orientation().ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("expected backward axis +Z, got %v", c.Orientation())
	}
	if !c.ViewMatrix().ApproxEqual(mgl32.Ident4()) {
		t.Errorf("expected identity view at the origin, got %v", c.ViewMatrix())
	}
}

func TestCameraMoveAndRotate(t *testing.T) {
	c := NewCamera(60, 1, 0.1, 100)
	c.Move(2)
	if !c.Position.ApproxEqual(mgl32.Vec3{0, 0, -2}) {
		t.Errorf("Move: expected (0,0,-2), got %v", c.Position)
	}

	c.Reset()
	c.Rotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	if !near(c.Orientation(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Rotate: expected backward axis +X, got %v", c.Orientation())
	}
	c.Move(1)
	if !near(c.Position, mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("Move after Rotate: expected (-1,0,0), got %v", c.Position)
	}

	// A point straight ahead lands on the view axis.
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{-5, 0, 0, 1})
	if !near(p.Vec3(), mgl32.Vec3{0, 0, -4}) {
		t.Errorf("ViewMatrix: expected (0,0,-4), got %v", p)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(90, 2, 1, 3)
	f := float32(1) // 1/tan(45°)
	expected := map[[2]int]float32{
		{0, 0}: f / 2,
		{1, 1}: f,
		{2, 2}: (3 + 1) / float32(1-3),
		{2, 3}: -1,
		{3, 2}: 2 * 3 * 1 / float32(1-3),
	}
	for rc, want := range expected {
		// mgl32 is column-major: At(row, col).
		if got := m.At(rc[1], rc[0]); mgl32.Abs(got-want) > epsilon {
			t.Errorf("Perspective[%d][%d]: expected %v, got %v", rc[0], rc[1], want, got)
		}
	}
}

func TestLightDefaults(t *testing.T) {
	l := NewLight(mgl32.Vec3{1, 2, 3})
	if l.Intensity != 1000 || l.Attenuation != 1 || l.Radius != 10000 {
		t.Errorf("unexpected defaults %+v", l)
	}
	if l.DiffuseColor != (mgl32.Vec3{1, 1, 1}) || l.SpecularColor != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected white light")
	}
	pos := l.ViewSpacePosition(mgl32.Translate3D(0, 0, -10))
	if pos != (mgl32.Vec4{1, 2, -7, 1}) {
		t.Errorf("ViewSpacePosition: expected (1,2,-7,1), got %v", pos)
	}
}

func TestLightIntensityAt(t *testing.T) {
	l := NewColoredLight(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, 100, 1, 50)
	tests := []struct {
		distance float32
		want     float32
	}{
		{5, 1},
		{20, 0.25},
		{51, 0},
	}
	for _, tt := range tests {
		if got := l.IntensityAt(tt.distance); mgl32.Abs(got-tt.want) > epsilon {
			t.Errorf("IntensityAt(%v): expected %v, got %v", tt.distance, tt.want, got)
		}
	}
}

func TestMatrixStack(t *testing.T) {
	s := NewMatrixStack()
	s.PushTranslation(mgl32.Vec3{1, 0, 0})
	s.PushScaling(mgl32.Vec3{2, 2, 2})

	// Scale is pushed last, so it is applied last.
	p := s.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !near(p, mgl32.Vec4{4, 0, 0, 1}) {
		t.Errorf("ModelMatrix: expected (4,0,0,1), got %v", p)
	}

	s.PushRotation(mgl32.DegToRad(30), mgl32.Vec3{0, 0, 1})
	want := s.ModelMatrix().Inv().Transpose()
	if got := s.NormalMatrix(); !near(got, want) {
		t.Errorf("NormalMatrix: expected %v, got %v", want, got)
	}

	s.Pop()
	s.Pop()
	if s.Len() != 1 {
		t.Errorf("Pop: expected 1 entry, got %d", s.Len())
	}
	s.Clear()
	s.Pop()
	if !s.ModelMatrix().ApproxEqual(mgl32.Ident4()) || !s.NormalMatrix().ApproxEqual(mgl32.Ident4()) {
		t.Errorf("Clear: expected identity matrices")
	}
}

func TestMatrixStackZeroScale(t *testing.T) {
	s := NewMatrixStack()
	s.PushScaling(mgl32.Vec3{0, 2, 1})
	n := s.NormalMatrix()
	if n.At(0, 0) != 1 || n.At(1, 1) != 0.5 {
		t.Errorf("expected zero scale skipped in the inverse, got %v", n)
	}
}

func TestFrustumCulling(t *testing.T) {
	c := NewCamera(90, 1, 0.1, 100)
	f := c.Frustum()

	unit := ComputeAABB([]core.Vertex{
		{Position: mgl32.Vec3{-0.5, -0.5, -0.5}},
		{Position: mgl32.Vec3{0.5, 0.5, 0.5}},
		{Position: mgl32.Vec3{0.1, -0.2, 0.3}},
	})
	if unit.Min != (mgl32.Vec3{-0.5, -0.5, -0.5}) || unit.Max != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Fatalf("ComputeAABB: got %+v", unit)
	}

	tests := []struct {
		name   string
		offset mgl32.Vec3
		want   bool
	}{
		{"ahead", mgl32.Vec3{0, 0, -10}, true},
		{"behind", mgl32.Vec3{0, 0, 10}, false},
		{"beyond far", mgl32.Vec3{0, 0, -200}, false},
		{"far left", mgl32.Vec3{-50, 0, -10}, false},
		{"straddling the edge", mgl32.Vec3{10.2, 0, -10}, true},
	}
	for _, tt := range tests {
		box := unit.Transform(mgl32.Translate3D(tt.offset[0], tt.offset[1], tt.offset[2]))
		if !near(box.Center(), tt.offset) {
			t.Errorf("%s: expected center %v, got %v", tt.name, tt.offset, box.Center())
		}
		if got := box.IntersectsFrustum(&f); got != tt.want {
			t.Errorf("%s: expected visible=%v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestAABBTransformRotation(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{1, 2, 3}}
	got := box.Transform(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	if !near(got.Min, mgl32.Vec3{-3, -2, -1}) || !near(got.Max, mgl32.Vec3{3, 2, 1}) {
		t.Errorf("Transform: expected (-3,-2,-1)..(3,2,1), got %+v", got)
	}
}
