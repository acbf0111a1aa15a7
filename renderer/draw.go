package renderer

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"brender/gpu"
	"brender/render"
	"brender/scene"
	"brender/shader"
)

// Instance places one model instance for QueueModelInstance.
type Instance struct {
	// Name identifies the instance in the queue and names its Properties.
	// Empty uses the model name. A name queued again before DrawQueue gets
	// a "#N" suffix so every instance keeps its own uniforms.
	Name       string
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Lights     []*scene.Light

	Transparent bool
	// BlendSrc and BlendDst apply to transparent instances. Both zero
	// selects SRC_ALPHA, ONE_MINUS_SRC_ALPHA.
	BlendSrc gpu.BlendFactor
	BlendDst gpu.BlendFactor
	// Distance overrides the camera distance used to sort transparent
	// instances. Nil uses the view-space depth of the model origin.
	Distance *float32
}

// CameraInstance fills the matrices of an instance from cam.
func CameraInstance(name string, cam *scene.Camera, model mgl32.Mat4, lights ...*scene.Light) Instance {
	return Instance{
		Name:       name,
		Model:      model,
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(),
		Lights:     lights,
	}
}

func (in Instance) blend() (gpu.BlendFactor, gpu.BlendFactor) {
	if in.BlendSrc == 0 && in.BlendDst == 0 {
		return gpu.DefaultBlendSrc, gpu.DefaultBlendDst
	}
	return in.BlendSrc, in.BlendDst
}

func (in Instance) distance() float32 {
	if in.Distance != nil {
		return *in.Distance
	}
	return -in.View.Mul4(in.Model).Col(3).Z()
}

// uniforms is the per-draw state shared by DrawModel and the queue helpers.
type uniforms struct {
	model, view, projection mgl32.Mat4
	lights                  []*scene.Light
	ambient                 mgl32.Vec3
}

// numLights is the light count a shader supporting maxLights receives.
func (u *uniforms) numLights(maxLights uint) uint {
	return min(uint(len(u.lights)), maxLights)
}

// set uploads the uniforms to the bound shader s.
func (u *uniforms) set(s *render.Shader) {
	mv := u.view.Mul4(u.model)
	s.SetMatrix4(shader.ProjectionMatrix, u.projection)
	s.SetMatrix4(shader.ViewMatrix, u.view)
	s.SetMatrix4(shader.ModelMatrix, u.model)
	s.SetMatrix4(shader.ModelViewMatrix, mv)
	s.SetMatrix3(shader.NormalMatrix, mv.Mat3().Inv().Transpose())

	n := u.numLights(s.MaxLights())
	s.SetFloat(shader.NumLights, float32(n))
	for i := range n {
		l := u.lights[i]
		s.SetVector4(shader.LightUniform(shader.LightPositionViewSpace, i), l.ViewSpacePosition(u.view))
		s.SetVector3(shader.LightUniform(shader.LightDiffuseColor, i), l.DiffuseColor)
		s.SetVector3(shader.LightUniform(shader.LightSpecularColor, i), l.SpecularColor)
		s.SetFloat(shader.LightUniform(shader.LightIntensity, i), l.Intensity)
		s.SetFloat(shader.LightUniform(shader.LightAttenuation, i), l.Attenuation)
		s.SetFloat(shader.LightUniform(shader.LightRadius, i), l.Radius)
	}
	s.SetVector3(shader.AmbientColor, u.ambient)
}

// store writes the uniforms into props for a shader supporting maxLights.
func (u *uniforms) store(props *render.Properties, maxLights uint) {
	mv := u.view.Mul4(u.model)
	props.SetMatrix4(shader.ProjectionMatrix, u.projection)
	props.SetMatrix4(shader.ViewMatrix, u.view)
	props.SetMatrix4(shader.ModelMatrix, u.model)
	props.SetMatrix4(shader.ModelViewMatrix, mv)
	props.SetMatrix3(shader.NormalMatrix, mv.Mat3().Inv().Transpose())

	n := u.numLights(maxLights)
	props.SetScalar(shader.NumLights, float32(n))
	for i := range n {
		l := u.lights[i]
		props.SetVector4(shader.LightUniform(shader.LightPositionViewSpace, i), l.ViewSpacePosition(u.view))
		props.SetVector3(shader.LightUniform(shader.LightDiffuseColor, i), l.DiffuseColor)
		props.SetVector3(shader.LightUniform(shader.LightSpecularColor, i), l.SpecularColor)
		props.SetScalar(shader.LightUniform(shader.LightIntensity, i), l.Intensity)
		props.SetScalar(shader.LightUniform(shader.LightAttenuation, i), l.Attenuation)
		props.SetScalar(shader.LightUniform(shader.LightRadius, i), l.Radius)
	}
	props.SetVector3(shader.AmbientColor, u.ambient)
}

// DrawModel draws every geometry of d immediately. The camera, model
// matrix and up to each shader's maximum of lights are uploaded before the
// material binds, props are applied after it.
func (e *Engine) DrawModel(d render.Drawable, cam *scene.Camera, stack *scene.MatrixStack, lights []*scene.Light, props *render.Properties) {
	u := uniforms{
		model:      stack.ModelMatrix(),
		view:       cam.ViewMatrix(),
		projection: cam.ProjectionMatrix(),
		lights:     lights,
		ambient:    e.resources.AmbientColor(),
	}
	for _, g := range d.Geometries() {
		mat := g.Material()
		if mat == nil || mat.Shader() == nil {
			continue
		}
		s := mat.Shader()
		s.Bind()
		u.set(s)
		g.Draw(props)
	}
}

// DrawModelNamed looks the model, camera, matrix stack and lights up by
// name and draws. Without light names every light is used in name order.
// Unknown names draw nothing and report false.
func (e *Engine) DrawModelNamed(model, camera, matrixStack string, lightNames ...string) bool {
	res := e.resources
	d, ok := res.GetModel(model)
	if !ok {
		return false
	}
	cam, ok := res.GetCamera(camera)
	if !ok {
		return false
	}
	stack, ok := res.GetMatrixStack(matrixStack)
	if !ok {
		return false
	}
	if len(lightNames) == 0 {
		lightNames = res.LightNames()
	}
	lights := make([]*scene.Light, 0, len(lightNames))
	for _, name := range lightNames {
		if l, ok := res.GetLight(name); ok {
			lights = append(lights, l)
		}
	}
	e.DrawModel(d, cam, stack, lights, nil)
	return true
}

// instanceName returns base the first time it is queued in a frame and
// base#1, base#2 ... after that.
func (e *Engine) instanceName(base string) string {
	n := e.queued[base]
	e.queued[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "#" + strconv.Itoa(n)
}

// QueueModelInstance submits every geometry of d to the render queue. The
// instance uniforms are written to the returned Properties, so values set
// there beforehand are kept unless the engine owns the uniform.
func (e *Engine) QueueModelInstance(d render.Drawable, in Instance) *render.Properties {
	if in.Name == "" {
		in.Name = d.Name()
	}
	in.Name = e.instanceName(in.Name)
	props := e.resources.CreateProperties(in.Name)
	u := uniforms{
		model:      in.Model,
		view:       in.View,
		projection: in.Projection,
		lights:     in.Lights,
		ambient:    e.resources.AmbientColor(),
	}

	var maxLights uint
	for _, g := range d.Geometries() {
		if mat := g.Material(); mat != nil && mat.Shader() != nil {
			maxLights = max(maxLights, mat.Shader().MaxLights())
		}
	}
	u.store(props, maxLights)

	src, dst := in.blend()
	dist := in.distance()
	for _, g := range d.Geometries() {
		mat := g.Material()
		if mat == nil || mat.Shader() == nil {
			continue
		}
		e.queue.Submit(mat.Shader().Program(), mat.Name(), g.Name(), in.Name, g, props,
			dist, in.Transparent, src, dst)
	}
	return props
}

// QueueTextInstance submits a text sprite as a transparent instance.
func (e *Engine) QueueTextInstance(ts *render.TextSprite, in Instance) *render.Properties {
	in.Transparent = true
	return e.QueueModelInstance(ts, in)
}

// DrawQueue draws and empties the render queue.
func (e *Engine) DrawQueue() {
	e.queue.Draw()
	clear(e.queued)
}
