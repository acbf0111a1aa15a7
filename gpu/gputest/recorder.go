// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
	"brender/gpu"
)

// Call is one recorded device operation. Name is the uniform or attribute name
// for location-based calls.
type Call struct {
	Op    string
	Name  string
	Value any
}

// Recorder implements gpu.Device without a GPU.
type Recorder struct {
	Calls []Call

	// Missing lists uniform names that resolve to -1 in every program.
	Missing map[string]bool
	// FailCompile and FailLink make CreateProgram fail at that stage.
	FailCompile bool
	FailLink    bool
	// TextureUnits is reported by MaxTextureUnits; zero means 16.
	TextureUnits int32

	// Programs holds the vertex and fragment text of every created program.
	Programs map[uint32][2]string
	// LocationLookups counts UniformLocation calls.
	LocationLookups int

	next      uint32
	live      map[uint32]string
	locations map[uint32]map[string]int32
	locNames  map[int32]string
	program   uint32
	fbo       uint32
	viewport  gpu.Viewport
	blend     [2]gpu.BlendFactor
}

func NewRecorder() *Recorder {
	return &Recorder{
		Missing:   map[string]bool{},
		Programs:  map[uint32][2]string{},
		live:      map[uint32]string{},
		locations: map[uint32]map[string]int32{},
		locNames:  map[int32]string{},
		viewport:  gpu.Viewport{Width: 640, Height: 480},
		blend:     [2]gpu.BlendFactor{gpu.BlendOne, gpu.BlendZero},
	}
}

func (r *Recorder) record(op, name string, v any) {
	r.Calls = append(r.Calls, Call{Op: op, Name: name, Value: v})
}

func (r *Recorder) alloc(kind string) uint32 {
	r.next++
	r.live[r.next] = kind
	return r.next
}

func (r *Recorder) free(id uint32) {
	delete(r.live, id)
}

// Reset forgets recorded calls but keeps live objects and state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.LocationLookups = 0
}

// Ops returns the recorded calls with the given op, in order.
func (r *Recorder) Ops(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Count(op string) int {
	return len(r.Ops(op))
}

// Live returns the number of created and not yet deleted objects of kind
// ("program", "buffers", "texture", "framebuffer", "renderbuffer").
func (r *Recorder) Live(kind string) int {
	n := 0
	for _, k := range r.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Uniform returns the last value set for the named uniform.
func (r *Recorder) Uniform(name string) (any, bool) {
	for i := len(r.Calls) - 1; i >= 0; i-- {
		c := r.Calls[i]
		if c.Name == name && len(c.Op) > 7 && c.Op[:7] == "Uniform" {
			return c.Value, true
		}
	}
	return nil, false
}

// UniformNames returns the uniform names set, in call order.
func (r *Recorder) UniformNames() []string {
	var out []string
	for _, c := range r.Calls {
		if len(c.Op) > 7 && c.Op[:7] == "Uniform" && c.Op != "UniformLocation" {
			out = append(out, c.Name)
		}
	}
	return out
}

// Blend returns the current blend factors.
func (r *Recorder) Blend() (gpu.BlendFactor, gpu.BlendFactor) {
	return r.blend[0], r.blend[1]
}

// ── Programs ────────────────────────────────────────────────────────────────

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	r.record("CreateProgram", "", nil)
	if r.FailCompile {
		return 0, fmt.Errorf("vertex: %w: 0:1: syntax error", gpu.ErrCompile)
	}
	if r.FailLink {
		return 0, fmt.Errorf("%w: unresolved varying", gpu.ErrLink)
	}
	id := r.alloc("program")
	r.Programs[id] = [2]string{vertexSrc, fragmentSrc}
	return id, nil
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", "", program)
	r.free(program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.program = program
	r.record("UseProgram", "", program)
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.LocationLookups++
	if r.Missing[name] {
		return -1
	}
	locs, ok := r.locations[program]
	if !ok {
		locs = map[string]int32{}
		r.locations[program] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(len(r.locNames))
	locs[name] = loc
	r.locNames[loc] = name
	return loc
}

func (r *Recorder) AttribLocation(program uint32, name string) int32 {
	if r.Missing[name] {
		return -1
	}
	switch name {
	case "Position":
		return 0
	case "Normal":
		return 1
	case "Tangent":
		return 2
	case "Bitangent":
		return 3
	case "TexCoord":
		return 4
	}
	return -1
}

func (r *Recorder) MaxTextureUnits() int32 {
	if r.TextureUnits == 0 {
		return 16
	}
	return r.TextureUnits
}

func (r *Recorder) Uniform1i(loc int32, v int32)      { r.record("Uniform1i", r.locNames[loc], v) }
func (r *Recorder) Uniform1f(loc int32, v float32)    { r.record("Uniform1f", r.locNames[loc], v) }
func (r *Recorder) Uniform3f(loc int32, v mgl32.Vec3) { r.record("Uniform3f", r.locNames[loc], v) }
func (r *Recorder) Uniform4f(loc int32, v mgl32.Vec4) { r.record("Uniform4f", r.locNames[loc], v) }

func (r *Recorder) UniformMatrix3(loc int32, m mgl32.Mat3) {
	r.record("UniformMatrix3", r.locNames[loc], m)
}

func (r *Recorder) UniformMatrix4(loc int32, m mgl32.Mat4) {
	r.record("UniformMatrix4", r.locNames[loc], m)
}

// ── Vertex data ─────────────────────────────────────────────────────────────

func (r *Recorder) CreateBuffers(vertices []core.Vertex, indices []uint32) gpu.Buffers {
	b := gpu.Buffers{VAO: r.alloc("buffers"), IndexCount: int32(len(indices))}
	r.record("CreateBuffers", "", b)
	return b
}

func (r *Recorder) DeleteBuffers(b gpu.Buffers) {
	r.record("DeleteBuffers", "", b)
	r.free(b.VAO)
}

func (r *Recorder) BindBuffers(b gpu.Buffers) {
	r.record("BindBuffers", "", b.VAO)
}

func (r *Recorder) VertexAttrib(loc uint32, size int32, stride int32, offset int) {
	r.record("VertexAttrib", "", [3]int{int(loc), int(size), offset})
}

func (r *Recorder) DrawElements(count int32) {
	r.record("DrawElements", "", count)
}

// DrawnVAOs returns the vertex array bound at each draw call.
func (r *Recorder) DrawnVAOs() []uint32 {
	var out []uint32
	var bound uint32
	for _, c := range r.Calls {
		switch c.Op {
		case "BindBuffers":
			bound = c.Value.(uint32)
		case "DrawElements":
			out = append(out, bound)
		}
	}
	return out
}

// ── Textures ────────────────────────────────────────────────────────────────

func (r *Recorder) CreateTexture(img gpu.Image) uint32 {
	id := r.alloc("texture")
	r.record("CreateTexture", "", img)
	return id
}

func (r *Recorder) CreateCubeMap(faces [6]gpu.Image) uint32 {
	id := r.alloc("texture")
	r.record("CreateCubeMap", "", faces)
	return id
}

func (r *Recorder) CreateDepthTexture(width, height int) uint32 {
	id := r.alloc("texture")
	r.record("CreateDepthTexture", "", [2]int{width, height})
	return id
}

func (r *Recorder) ResizeTexture(tex uint32, width, height int) {
	r.record("ResizeTexture", "", [3]int{int(tex), width, height})
}

func (r *Recorder) DeleteTexture(tex uint32) {
	r.record("DeleteTexture", "", tex)
	r.free(tex)
}

func (r *Recorder) BindTexture(unit int32, target gpu.TextureTarget, tex uint32) {
	r.record("BindTexture", "", [2]uint32{uint32(unit), tex})
}

// ── Framebuffers ────────────────────────────────────────────────────────────

func (r *Recorder) CreateFramebuffer() uint32 {
	id := r.alloc("framebuffer")
	r.record("CreateFramebuffer", "", id)
	return id
}

func (r *Recorder) DeleteFramebuffer(fbo uint32) {
	r.record("DeleteFramebuffer", "", fbo)
	r.free(fbo)
}

func (r *Recorder) BindFramebuffer(fbo uint32) {
	r.fbo = fbo
	r.record("BindFramebuffer", "", fbo)
}

func (r *Recorder) CurrentFramebuffer() uint32 {
	return r.fbo
}

func (r *Recorder) CreateDepthRenderbuffer(width, height int) uint32 {
	id := r.alloc("renderbuffer")
	r.record("CreateDepthRenderbuffer", "", [2]int{width, height})
	return id
}

func (r *Recorder) ResizeDepthRenderbuffer(rb uint32, width, height int) {
	r.record("ResizeDepthRenderbuffer", "", [3]int{int(rb), width, height})
}

func (r *Recorder) DeleteRenderbuffer(rb uint32) {
	r.record("DeleteRenderbuffer", "", rb)
	r.free(rb)
}

func (r *Recorder) AttachColorTexture(tex uint32) { r.record("AttachColorTexture", "", tex) }
func (r *Recorder) AttachDepthTexture(tex uint32) { r.record("AttachDepthTexture", "", tex) }

func (r *Recorder) AttachDepthRenderbuffer(rb uint32) {
	r.record("AttachDepthRenderbuffer", "", rb)
}

func (r *Recorder) CheckFramebuffer() error {
	return nil
}

func (r *Recorder) Viewport() gpu.Viewport {
	return r.viewport
}

func (r *Recorder) SetViewport(v gpu.Viewport) {
	r.viewport = v
	r.record("SetViewport", "", v)
}

func (r *Recorder) Clear(color core.Color) {
	r.record("Clear", "", color)
}

// ── State ───────────────────────────────────────────────────────────────────

func (r *Recorder) InitState() {
	r.blend = [2]gpu.BlendFactor{gpu.DefaultBlendSrc, gpu.DefaultBlendDst}
	r.record("InitState", "", nil)
}

func (r *Recorder) BlendFunc(src, dst gpu.BlendFactor) {
	r.blend = [2]gpu.BlendFactor{src, dst}
	r.record("BlendFunc", "", [2]gpu.BlendFactor{src, dst})
}

var _ gpu.Device = (*Recorder)(nil)
