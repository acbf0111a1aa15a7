package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"brender/gpu"
)

// CreateTexture uploads img as a mipmapped, repeating 2D texture.
// Images without pixel data get linear filtering and no mipmaps, for use as
// render targets.
func (d *Device) CreateTexture(img gpu.Image) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	internal, format := glFormat(img.Format)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		internal,
		int32(img.Width),
		int32(img.Height),
		0,
		format,
		gl.UNSIGNED_BYTE,
		pixelPtr(img.Pixels),
	)
	if len(img.Pixels) > 0 {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_2D)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

// CreateCubeMap uploads six faces in +X, -X, +Y, -Y, +Z, -Z order.
func (d *Device) CreateCubeMap(faces [6]gpu.Image) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, img := range faces {
		internal, format := glFormat(img.Format)
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, internal,
			int32(img.Width), int32(img.Height), 0, format, gl.UNSIGNED_BYTE, pixelPtr(img.Pixels))
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return id
}

// CreateDepthTexture allocates a float depth texture with hardware comparison
// enabled, suitable for shadow lookups.
func (d *Device) CreateDepthTexture(width, height int) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		int32(width), int32(height), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Lookups outside the map read as fully lit
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (d *Device) ResizeTexture(tex uint32, width, height int) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *Device) DeleteTexture(tex uint32) {
	if tex == 0 {
		return
	}
	gl.DeleteTextures(1, &tex)
}

func (d *Device) BindTexture(unit int32, target gpu.TextureTarget, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if target == gpu.TextureCubeMap {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func glFormat(f gpu.TextureFormat) (internal int32, format uint32) {
	switch f {
	case gpu.FormatRGB:
		return gl.RGB, gl.RGB
	case gpu.FormatRed:
		return gl.R8, gl.RED
	default:
		return gl.RGBA, gl.RGBA
	}
}

func pixelPtr(pixels []byte) unsafe.Pointer {
	if len(pixels) == 0 {
		return nil
	}
	return unsafe.Pointer(&pixels[0])
}
