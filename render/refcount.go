// Package render holds the GPU-backed engine objects: shader programs,
// textures, materials, geometry, models, sprites, text, framebuffers and
// the render queue.
package render

// refCount tracks owners of a GPU object. A new object starts with one
// reference held by its creator; destroy runs when the count drops to zero.
type refCount struct {
	n       int
	destroy func()
}

func newRefCount(destroy func()) refCount {
	return refCount{n: 1, destroy: destroy}
}

// Retain adds an owner.
func (r *refCount) Retain() {
	r.n++
}

// Release drops an owner and destroys the object when none are left.
// Releasing a destroyed object does nothing.
func (r *refCount) Release() {
	if r.n <= 0 {
		return
	}
	r.n--
	if r.n == 0 && r.destroy != nil {
		r.destroy()
	}
}

// Refs returns the number of live owners.
func (r *refCount) Refs() int {
	return r.n
}

// Released reports whether the GPU object has been destroyed.
func (r *refCount) Released() bool {
	return r.n <= 0
}
