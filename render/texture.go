package render

import "brender/gpu"

// Texture is an uploaded 2D image.
type Texture struct {
	refCount
	id            uint32
	Width, Height int
	Format        gpu.TextureFormat
}

// NewTexture uploads img.
func NewTexture(dev gpu.Device, img gpu.Image) *Texture {
	t := &Texture{
		id:     dev.CreateTexture(img),
		Width:  img.Width,
		Height: img.Height,
		Format: img.Format,
	}
	t.refCount = newRefCount(func() { dev.DeleteTexture(t.id) })
	return t
}

func (t *Texture) ID() uint32 { return t.id }

// CubeMap is a six-face cube texture. Faces are ordered +X, -X, +Y, -Y, +Z, -Z.
type CubeMap struct {
	refCount
	id uint32
}

func NewCubeMap(dev gpu.Device, faces [6]gpu.Image) *CubeMap {
	c := &CubeMap{id: dev.CreateCubeMap(faces)}
	c.refCount = newRefCount(func() { dev.DeleteTexture(c.id) })
	return c
}

func (c *CubeMap) ID() uint32 { return c.id }

// DepthMap is a depth texture usable as a framebuffer attachment and a sampler.
type DepthMap struct {
	refCount
	id            uint32
	Width, Height int
}

func NewDepthMap(dev gpu.Device, width, height int) *DepthMap {
	d := &DepthMap{id: dev.CreateDepthTexture(width, height), Width: width, Height: height}
	d.refCount = newRefCount(func() { dev.DeleteTexture(d.id) })
	return d
}

func (d *DepthMap) ID() uint32 { return d.id }
