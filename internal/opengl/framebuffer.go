package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"brender/gpu"
)

func (d *Device) CreateFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	if fbo == 0 {
		return
	}
	gl.DeleteFramebuffers(1, &fbo)
}

func (d *Device) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (d *Device) CurrentFramebuffer() uint32 {
	var fbo int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &fbo)
	return uint32(fbo)
}

// CreateDepthRenderbuffer allocates a 16-bit depth renderbuffer.
func (d *Device) CreateDepthRenderbuffer(width, height int) uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	d.ResizeDepthRenderbuffer(rb, width, height)
	return rb
}

func (d *Device) ResizeDepthRenderbuffer(rb uint32, width, height int) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (d *Device) DeleteRenderbuffer(rb uint32) {
	if rb == 0 {
		return
	}
	gl.DeleteRenderbuffers(1, &rb)
}

// AttachColorTexture attaches tex to COLOR_ATTACHMENT0 of the bound framebuffer.
func (d *Device) AttachColorTexture(tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	gl.DrawBuffer(gl.COLOR_ATTACHMENT0)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
}

// AttachDepthTexture makes the bound framebuffer depth-only.
func (d *Device) AttachDepthTexture(tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
}

func (d *Device) AttachDepthRenderbuffer(rb uint32) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rb)
}

func (d *Device) CheckFramebuffer() error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status=0x%X", gpu.ErrFramebuffer, status)
	}
	return nil
}
