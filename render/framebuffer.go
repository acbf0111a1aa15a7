package render

import (
	"fmt"

	"brender/core"
	"brender/gpu"
)

// Framebuffer is an offscreen render target with its own depth buffer.
// A framebuffer created without a size follows the viewport.
type Framebuffer struct {
	refCount
	dev        gpu.Device
	fbo        uint32
	depth      uint32
	width      int
	height     int
	autoResize bool

	preserve bool
	previous uint32
	viewport gpu.Viewport
}

// NewFramebuffer creates a width x height target. Zero width or height
// sizes it to the current viewport and resizes it on every bind.
func NewFramebuffer(dev gpu.Device, width, height int) *Framebuffer {
	f := &Framebuffer{dev: dev, width: width, height: height}
	if width <= 0 || height <= 0 {
		vp := dev.Viewport()
		f.width, f.height = int(vp.Width), int(vp.Height)
		f.autoResize = true
	}
	f.depth = dev.CreateDepthRenderbuffer(f.width, f.height)
	f.fbo = dev.CreateFramebuffer()

	prev := dev.CurrentFramebuffer()
	dev.BindFramebuffer(f.fbo)
	dev.AttachDepthRenderbuffer(f.depth)
	dev.BindFramebuffer(prev)

	f.refCount = newRefCount(func() {
		dev.DeleteFramebuffer(f.fbo)
		dev.DeleteRenderbuffer(f.depth)
	})
	return f
}

func (f *Framebuffer) Size() (int, int) { return f.width, f.height }
func (f *Framebuffer) AutoResize() bool { return f.autoResize }

// Resize reallocates the depth buffer if the size changed.
func (f *Framebuffer) Resize(width, height int) {
	if width == f.width && height == f.height {
		return
	}
	f.width, f.height = width, height
	f.dev.ResizeDepthRenderbuffer(f.depth, width, height)
}

func (f *Framebuffer) begin(preserve bool) {
	f.preserve = preserve
	if preserve {
		f.previous = f.dev.CurrentFramebuffer()
	}
	f.viewport = f.dev.Viewport()
	if f.autoResize {
		f.Resize(int(f.viewport.Width), int(f.viewport.Height))
	}
	f.dev.BindFramebuffer(f.fbo)
	f.dev.SetViewport(gpu.Viewport{Width: int32(f.width), Height: int32(f.height)})
}

// Bind makes the framebuffer the render target and clears it. With
// preserve, Unbind returns to the framebuffer bound before.
func (f *Framebuffer) Bind(preserve bool) {
	f.begin(preserve)
	f.dev.Clear(core.ColorBlack)
}

// BindTexture renders into t. The texture is resized to the framebuffer.
func (f *Framebuffer) BindTexture(t *Texture, preserve bool) error {
	f.begin(preserve)
	if t.Width != f.width || t.Height != f.height {
		f.dev.ResizeTexture(t.id, f.width, f.height)
		t.Width, t.Height = f.width, f.height
	}
	f.dev.AttachColorTexture(t.id)
	f.dev.AttachDepthRenderbuffer(f.depth)
	if err := f.dev.CheckFramebuffer(); err != nil {
		f.Unbind()
		return fmt.Errorf("bind texture %d: %w", t.id, err)
	}
	f.dev.Clear(core.ColorBlack)
	return nil
}

// BindDepthMap renders depth only into d.
func (f *Framebuffer) BindDepthMap(d *DepthMap, preserve bool) error {
	f.begin(preserve)
	f.dev.AttachDepthTexture(d.id)
	if err := f.dev.CheckFramebuffer(); err != nil {
		f.Unbind()
		return fmt.Errorf("bind depth map %d: %w", d.id, err)
	}
	f.dev.Clear(core.ColorBlack)
	return nil
}

// Unbind restores the previous render target and viewport.
func (f *Framebuffer) Unbind() {
	if f.preserve {
		f.dev.BindFramebuffer(f.previous)
	} else {
		f.dev.BindFramebuffer(0)
	}
	f.dev.SetViewport(f.viewport)
}
