package scene

import "github.com/go-gl/mathgl/mgl32"

// MatrixStack composes a model matrix from pushed transformations and keeps
// the inverse of each one for the normal matrix.
type MatrixStack struct {
	model  []mgl32.Mat4
	normal []mgl32.Mat4
}

func NewMatrixStack() *MatrixStack {
	return &MatrixStack{}
}

func (s *MatrixStack) PushTranslation(v mgl32.Vec3) {
	s.model = append(s.model, mgl32.Translate3D(v[0], v[1], v[2]))
	s.normal = append(s.normal, mgl32.Translate3D(-v[0], -v[1], -v[2]))
}

// PushScaling pushes a scale. Zero components are left at one in the inverse.
func (s *MatrixStack) PushScaling(v mgl32.Vec3) {
	inv := mgl32.Vec3{1, 1, 1}
	for i := range 3 {
		if v[i] != 0 {
			inv[i] = 1 / v[i]
		}
	}
	s.model = append(s.model, mgl32.Scale3D(v[0], v[1], v[2]))
	s.normal = append(s.normal, mgl32.Scale3D(inv[0], inv[1], inv[2]))
}

// PushRotation pushes a rotation of angle radians about axis.
func (s *MatrixStack) PushRotation(angle float32, axis mgl32.Vec3) {
	r := mgl32.HomogRotate3D(angle, axis.Normalize())
	s.model = append(s.model, r)
	s.normal = append(s.normal, r.Transpose())
}

// Pop removes the last pushed transformation. Popping an empty stack does nothing.
func (s *MatrixStack) Pop() {
	if len(s.model) == 0 {
		return
	}
	s.model = s.model[:len(s.model)-1]
	s.normal = s.normal[:len(s.normal)-1]
}

func (s *MatrixStack) Clear() {
	s.model = s.model[:0]
	s.normal = s.normal[:0]
}

func (s *MatrixStack) Len() int {
	return len(s.model)
}

// ModelMatrix returns last * ... * first: the first pushed transformation is
// applied to vertices first.
func (s *MatrixStack) ModelMatrix() mgl32.Mat4 {
	m := mgl32.Ident4()
	for i := len(s.model) - 1; i >= 0; i-- {
		m = m.Mul4(s.model[i])
	}
	return m
}

// NormalMatrix returns the inverse transpose of ModelMatrix.
func (s *MatrixStack) NormalMatrix() mgl32.Mat4 {
	inv := mgl32.Ident4()
	for _, n := range s.normal {
		inv = inv.Mul4(n)
	}
	return inv.Transpose()
}
