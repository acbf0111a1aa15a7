package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"brender/core"
	"brender/gpu"
)

// CreateBuffers uploads interleaved vertices and 32-bit indices.
// Attribute pointers are set at draw time from the bound shader's table.
func (d *Device) CreateBuffers(vertices []core.Vertex, indices []uint32) gpu.Buffers {
	stride := int(unsafe.Sizeof(core.Vertex{}))
	b := gpu.Buffers{IndexCount: int32(len(indices))}

	gl.GenVertexArrays(1, &b.VAO)
	gl.GenBuffers(1, &b.VBO)
	gl.BindVertexArray(b.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*stride, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &b.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b
}

func (d *Device) DeleteBuffers(b gpu.Buffers) {
	gl.DeleteVertexArrays(1, &b.VAO)
	gl.DeleteBuffers(1, &b.VBO)
	if b.EBO != 0 {
		gl.DeleteBuffers(1, &b.EBO)
	}
}

func (d *Device) BindBuffers(b gpu.Buffers) {
	gl.BindVertexArray(b.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.VBO)
}

func (d *Device) VertexAttrib(loc uint32, size int32, stride int32, offset int) {
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
}

func (d *Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}
