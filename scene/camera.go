package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera defaults.
const (
	DefaultFieldOfView = 60.0 // degrees
	DefaultAspectRatio = 4.0 / 3.0
	DefaultNear        = -1.0
	DefaultFar         = 1.0
)

// Camera is a perspective camera. The orientation is the camera's backward
// axis, so the camera looks along -Orientation() and Move with a positive
// speed moves it forward.
type Camera struct {
	Position    mgl32.Vec3
	Rotation    mgl32.Mat4
	FOV         float32 // degrees
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	orientation mgl32.Vec3
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	c := &Camera{
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
	}
	c.Reset()
	return c
}

func DefaultCamera() *Camera {
	return NewCamera(DefaultFieldOfView, DefaultAspectRatio, DefaultNear, DefaultFar)
}

// Reset returns the camera to the origin with no rotation. Projection
// parameters are kept.
func (c *Camera) Reset() {
	c.Position = mgl32.Vec3{}
	c.SetRotation(mgl32.Ident4())
}

func (c *Camera) SetRotation(rot mgl32.Mat4) {
	c.Rotation = rot
	c.orientation = rot.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
}

func (c *Camera) Orientation() mgl32.Vec3 {
	return c.orientation
}

// UpdateAspectRatio sets the aspect ratio from a framebuffer size.
func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
	}
}

// Move translates the camera along its view direction.
func (c *Camera) Move(speed float32) {
	c.Position = c.Position.Sub(c.orientation.Mul(speed))
}

// Rotate applies a rotation of angle radians about axis, in camera space.
func (c *Camera) Rotate(angle float32, axis mgl32.Vec3) {
	c.SetRotation(c.Rotation.Mul4(mgl32.HomogRotate3D(angle, axis.Normalize())))
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return LookAt(c.Position, c.Position.Sub(c.orientation), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) ViewProjectionMatrix() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// LookAt returns a right-handed view matrix.
func LookAt(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, target, up)
}

// Perspective returns a projection matrix for a vertical field of view in degrees.
func Perspective(fov, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far)
}
