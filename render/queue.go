package render

import (
	"cmp"
	"slices"

	"brender/gpu"
)

type opaqueKey struct {
	shader   uint32
	material string
	geometry string
	instance string
}

func compareOpaque(a, b opaqueKey) int {
	return cmp.Or(
		cmp.Compare(a.shader, b.shader),
		cmp.Compare(a.material, b.material),
		cmp.Compare(a.geometry, b.geometry),
		cmp.Compare(a.instance, b.instance),
	)
}

type renderCall struct {
	geometry *Geometry
	props    *Properties
	key      opaqueKey
	distance float32
	blendSrc gpu.BlendFactor
	blendDst gpu.BlendFactor
}

// RenderQueue collects one frame of draw calls. Opaque calls are drawn
// grouped by shader, material and geometry; transparent calls farthest
// first with their own blend factors. Draw empties the queue.
type RenderQueue struct {
	dev         gpu.Device
	opaque      []renderCall
	transparent []renderCall
}

func NewRenderQueue(dev gpu.Device) *RenderQueue {
	return &RenderQueue{dev: dev}
}

// Submit adds a call to the opaque or transparent bucket. Opaque calls
// ignore distance and blend factors.
func (q *RenderQueue) Submit(shaderID uint32, materialName, geometryName, instanceName string,
	g *Geometry, props *Properties, distance float32, transparent bool, blendSrc, blendDst gpu.BlendFactor) {
	c := renderCall{
		geometry: g,
		props:    props,
		key:      opaqueKey{shaderID, materialName, geometryName, instanceName},
		distance: distance,
		blendSrc: blendSrc,
		blendDst: blendDst,
	}
	if transparent {
		q.transparent = append(q.transparent, c)
	} else {
		q.opaque = append(q.opaque, c)
	}
}

func (q *RenderQueue) SubmitOpaque(shaderID uint32, materialName, geometryName, instanceName string, g *Geometry, props *Properties) {
	q.Submit(shaderID, materialName, geometryName, instanceName, g, props, 0, false, gpu.DefaultBlendSrc, gpu.DefaultBlendDst)
}

func (q *RenderQueue) SubmitTransparent(g *Geometry, props *Properties, distance float32, blendSrc, blendDst gpu.BlendFactor) {
	q.Submit(0, "", "", "", g, props, distance, true, blendSrc, blendDst)
}

// Len returns the number of pending calls.
func (q *RenderQueue) Len() int {
	return len(q.opaque) + len(q.transparent)
}

// Draw issues every pending call, restores the default blend function and
// clears both buckets. Calls with equal keys keep submission order.
func (q *RenderQueue) Draw() {
	slices.SortStableFunc(q.opaque, func(a, b renderCall) int {
		return compareOpaque(a.key, b.key)
	})
	slices.SortStableFunc(q.transparent, func(a, b renderCall) int {
		return cmp.Compare(b.distance, a.distance)
	})

	for _, c := range q.opaque {
		c.geometry.Draw(c.props)
	}
	for _, c := range q.transparent {
		q.dev.BlendFunc(c.blendSrc, c.blendDst)
		c.geometry.Draw(c.props)
	}
	q.dev.BlendFunc(gpu.DefaultBlendSrc, gpu.DefaultBlendDst)

	q.Clear()
}

// Clear drops pending calls without drawing them.
func (q *RenderQueue) Clear() {
	clear(q.opaque)
	clear(q.transparent)
	q.opaque = q.opaque[:0]
	q.transparent = q.transparent[:0]
}
