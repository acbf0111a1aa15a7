package render

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"brender/gpu"
	"brender/shader"
)

// Font is a sized face of a parsed TrueType or OpenType font.
type Font struct {
	refCount
	name string
	face font.Face
	size float64
}

// NewFont creates a face of f at pixelSize pixels per em.
func NewFont(name string, f *opentype.Font, pixelSize float64) (*Font, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    pixelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", name, err)
	}
	ft := &Font{name: name, face: face, size: pixelSize}
	ft.refCount = newRefCount(func() { _ = face.Close() })
	return ft, nil
}

func (f *Font) Name() string       { return f.name }
func (f *Font) PixelSize() float64 { return f.size }

// Rasterize renders text on one line into a single-channel coverage image.
// The image is never empty.
func (f *Font) Rasterize(text string) gpu.Image {
	d := &font.Drawer{Face: f.face}
	metrics := f.face.Metrics()
	w := d.MeasureString(text).Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d.Dst = mask
	d.Src = image.White
	d.Dot = fixed.Point26_6{X: 0, Y: metrics.Ascent}
	d.DrawString(text)

	return gpu.Image{Width: w, Height: h, Format: gpu.FormatRed, Pixels: mask.Pix}
}

// TextSprite is a line of text rendered to a texture and drawn on a quad
// one unit high. The quad's width follows the text's aspect ratio.
type TextSprite struct {
	refCount
	dev      gpu.Device
	name     string
	text     string
	width    float32
	font     *Font
	material *Material
	geometry *Geometry
}

// NewTextSprite draws text in color with s, which should sample CharacterMap.
func NewTextSprite(dev gpu.Device, name string, s *Shader, color mgl32.Vec3, text string, f *Font) *TextSprite {
	ts := &TextSprite{
		dev:      dev,
		name:     name,
		font:     f,
		material: NewMaterial(name, s),
	}
	f.Retain()
	ts.material.SetVector(shader.KeyDiffuseColor, color)
	ts.SetText(text)
	ts.refCount = newRefCount(func() {
		ts.geometry.Release()
		ts.material.Release()
		ts.font.Release()
	})
	return ts
}

func (ts *TextSprite) drawable() {}

func (ts *TextSprite) Name() string { return ts.name }
func (ts *TextSprite) Text() string { return ts.text }

// Width is the quad width relative to its unit height.
func (ts *TextSprite) Width() float32          { return ts.width }
func (ts *TextSprite) Material() *Material     { return ts.material }
func (ts *TextSprite) Geometries() []*Geometry { return []*Geometry{ts.geometry} }
func (ts *TextSprite) Draw(props *Properties)  { ts.geometry.Draw(props) }

func (ts *TextSprite) SetColor(color mgl32.Vec3) {
	ts.material.SetVector(shader.KeyDiffuseColor, color)
}

// SetText re-rasterizes the texture and rebuilds the quad.
func (ts *TextSprite) SetText(text string) {
	img := ts.font.Rasterize(text)
	tex := NewTexture(ts.dev, img)
	ts.material.SetTexture(shader.CharacterMap, tex)
	tex.Release()

	aspect := float32(img.Width) / float32(img.Height)
	ts.width = aspect
	g := NewGeometry(ts.dev, QuadData(ts.name, aspect*0.5, 0.5), ts.material)
	if ts.geometry != nil {
		ts.geometry.Release()
	}
	ts.geometry = g
	ts.text = text
}
