package scene

import "github.com/go-gl/mathgl/mgl32"

// Light defaults.
const (
	DefaultLightIntensity   = 1000.0
	DefaultLightAttenuation = 1.0
	DefaultLightRadius      = 10000.0
)

// Light is a point light. Its contribution falls off with
// Intensity / (Attenuation * d²) and is zero beyond Radius.
type Light struct {
	Position      mgl32.Vec3
	DiffuseColor  mgl32.Vec3
	SpecularColor mgl32.Vec3
	Intensity     float32
	Attenuation   float32
	Radius        float32
}

// NewLight creates a white light at position.
func NewLight(position mgl32.Vec3) *Light {
	return NewColoredLight(position, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, DefaultLightIntensity, DefaultLightAttenuation, DefaultLightRadius)
}

func NewColoredLight(position, diffuse, specular mgl32.Vec3, intensity, attenuation, radius float32) *Light {
	return &Light{
		Position:      position,
		DiffuseColor:  diffuse,
		SpecularColor: specular,
		Intensity:     intensity,
		Attenuation:   attenuation,
		Radius:        radius,
	}
}

// ViewSpacePosition returns the homogeneous light position transformed by view.
func (l *Light) ViewSpacePosition(view mgl32.Mat4) mgl32.Vec4 {
	return view.Mul4x1(l.Position.Vec4(1))
}

// IntensityAt mirrors the per-vertex falloff of generated shaders.
func (l *Light) IntensityAt(distance float32) float32 {
	if distance > l.Radius {
		return 0
	}
	d := l.Attenuation * distance * distance
	if d <= 0 {
		return 1
	}
	return mgl32.Clamp(l.Intensity/d, 0, 1)
}
