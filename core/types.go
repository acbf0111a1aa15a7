package core

import "github.com/go-gl/mathgl/mgl32"

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

// RGB drops the alpha channel.
func (c Color) RGB() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

func (c Color) RGBA() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Vertex is the interleaved layout uploaded for every geometry.
// Field order matches the attribute table registered on each shader.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
	TexCoord  mgl32.Vec2
}
