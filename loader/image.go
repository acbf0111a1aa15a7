package loader

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"brender/gpu"
)

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file into RGBA8 pixels.
func LoadImage(path string) (gpu.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return gpu.Image{}, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	img, err := DecodeImage(f)
	if err != nil {
		return gpu.Image{}, fmt.Errorf("image %q: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes any registered image format into RGBA8 pixels, rows
// top to bottom.
func DecodeImage(r io.Reader) (gpu.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return gpu.Image{}, fmt.Errorf("decode: %w", err)
	}
	return ToImage(src), nil
}

// DecodeImageBytes decodes an in-memory image, e.g. one embedded in a glTF buffer.
func DecodeImageBytes(data []byte) (gpu.Image, error) {
	return DecodeImage(bytes.NewReader(data))
}

// ToImage converts any image to tightly packed RGBA8.
func ToImage(src image.Image) gpu.Image {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return gpu.Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: gpu.FormatRGBA,
		Pixels: rgba.Pix,
	}
}
