package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
	"brender/gpu"
	"brender/gpu/gputest"
	"brender/render"
	"brender/scene"
	"brender/shader"
)

type fakeView struct {
	closeAfter int
	swaps      int
	polls      int
	now        float64
	destroyed  bool
	width      int
	height     int
}

func (v *fakeView) ShouldClose() bool              { return v.swaps >= v.closeAfter }
func (v *fakeView) PollEvents()                    { v.polls++ }
func (v *fakeView) SwapBuffers()                   { v.swaps++ }
func (v *fakeView) GetFramebufferSize() (int, int) { return v.width, v.height }
func (v *fakeView) Destroy()                       { v.destroyed = true }
func (v *fakeView) Time() float64 {
	v.now += 0.25
	return v.now
}

type fakeProject struct {
	initErr    error
	stopAt     int
	inits      int
	loops      int
	terminates int
	dts        []float64
	elapsed    []float64
	// resources alive when Terminate ran
	resourcesAtTerminate int
}

func (p *fakeProject) Init(e *Engine) error {
	p.inits++
	if p.initErr != nil {
		return p.initErr
	}
	_, err := e.Resources().GenerateShader("basic", shader.Features{Diffuse: true, DiffuseColor: true})
	return err
}

func (p *fakeProject) Loop(e *Engine, dt, elapsed float64) {
	p.loops++
	p.dts = append(p.dts, dt)
	p.elapsed = append(p.elapsed, elapsed)
	if p.loops == p.stopAt {
		if err := e.Stop(); err != nil {
			panic(err)
		}
	}
}

func (p *fakeProject) Terminate(e *Engine) {
	p.terminates++
	p.resourcesAtTerminate = e.Resources().Len()
}

func newTestEngine(t *testing.T, view *fakeView, project Project) (*Engine, *gputest.Recorder) {
	t.Helper()
	r := gputest.NewRecorder()
	cfg := core.DefaultConfig()
	cfg.DataPath = t.TempDir()
	e, err := New(cfg, view, r, project)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, r
}

func TestEngineLifecycle(t *testing.T) {
	view := &fakeView{closeAfter: 3, width: 800, height: 600}
	project := &fakeProject{}
	e, r := newTestEngine(t, view, project)

	if e.State() != StateCreated {
		t.Fatalf("expected created, got %s", e.State())
	}
	if err := e.Run(); !errors.Is(err, ErrState) {
		t.Errorf("Run before Init: expected ErrState, got %v", err)
	}

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if e.State() != StateInitialized || project.inits != 1 || r.Count("InitState") != 1 {
		t.Errorf("expected one initialization, got state %s, %d inits", e.State(), project.inits)
	}
	if vp := r.Viewport(); vp.Width != 800 || vp.Height != 600 {
		t.Errorf("expected viewport 800x600, got %v", vp)
	}
	if src, dst := r.Blend(); src != gpu.BlendSrcAlpha || dst != gpu.BlendOneMinusSrcAlpha {
		t.Errorf("expected default blend, got %v %v", src, dst)
	}
	if err := e.Init(); !errors.Is(err, ErrState) {
		t.Errorf("second Init: expected ErrState, got %v", err)
	}

	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if project.loops != 3 || view.polls != 3 || e.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d loops, %d polls", project.loops, view.polls)
	}
	if e.State() != StateStopped {
		t.Errorf("expected stopped after the view closed, got %s", e.State())
	}
	for i, dt := range project.dts {
		if dt != 0.25 {
			t.Errorf("frame %d: expected dt 0.25, got %v", i, dt)
		}
	}
	if got := project.elapsed[2]; got != 0.75 {
		t.Errorf("expected elapsed 0.75 on the third frame, got %v", got)
	}

	if err := e.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if project.terminates != 1 || project.resourcesAtTerminate != 1 {
		t.Errorf("expected Terminate to run before resources are released, got %d resources", project.resourcesAtTerminate)
	}
	if e.Resources().Len() != 0 || r.Live("program") != 0 {
		t.Errorf("expected all resources released")
	}
	if !view.destroyed || e.State() != StateTerminated {
		t.Errorf("expected destroyed view and terminated state")
	}
	if err := e.Terminate(); !errors.Is(err, ErrState) {
		t.Errorf("second Terminate: expected ErrState, got %v", err)
	}
}

func TestEngineStopAndResume(t *testing.T) {
	view := &fakeView{closeAfter: 100}
	project := &fakeProject{stopAt: 2}
	e, _ := newTestEngine(t, view, project)
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	if err := e.Stop(); !errors.Is(err, ErrState) {
		t.Errorf("Stop before Run: expected ErrState, got %v", err)
	}

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if project.loops != 2 || e.State() != StateStopped {
		t.Errorf("expected stop after 2 frames, got %d in state %s", project.loops, e.State())
	}

	project.stopAt = 5
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if project.loops != 5 {
		t.Errorf("expected resume to run until frame 5, got %d", project.loops)
	}
}

func TestEngineInitFailure(t *testing.T) {
	boom := errors.New("boom")
	view := &fakeView{}
	e, _ := newTestEngine(t, view, &fakeProject{initErr: boom})
	if err := e.Init(); !errors.Is(err, boom) {
		t.Errorf("expected project error, got %v", err)
	}
	if e.State() != StateCreated {
		t.Errorf("expected created after failed init, got %s", e.State())
	}
	if err := e.Terminate(); err != nil || !view.destroyed {
		t.Errorf("expected Terminate to destroy the view, got %v", err)
	}
}

func newLitQuad(t *testing.T, e *Engine, maxLights uint) render.Drawable {
	t.Helper()
	s, err := e.Resources().GenerateShader("lit", shader.Features{
		MaxLights:          maxLights,
		VariableLightCount: true,
		Diffuse:            true,
		DiffuseColor:       true,
	})
	if err != nil {
		t.Fatal(err)
	}
	data := render.ModelData{
		Name:   "quad",
		Groups: []render.GeometryData{render.QuadData("q", 1, 1)},
	}
	d, err := e.Resources().CreateModelWithShader("quad", data, s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDrawModelUniforms(t *testing.T) {
	e, r := newTestEngine(t, &fakeView{}, nil)
	e.Resources().SetAmbientColor(mgl32.Vec3{0.1, 0.2, 0.3})
	d := newLitQuad(t, e, 2)

	lights := []*scene.Light{
		scene.NewLight(mgl32.Vec3{1, 0, 0}),
		scene.NewLight(mgl32.Vec3{0, 1, 0}),
		scene.NewLight(mgl32.Vec3{0, 0, 1}),
	}
	stack := scene.NewMatrixStack()
	stack.PushTranslation(mgl32.Vec3{0, 0, -5})

	r.Reset()
	e.DrawModel(d, scene.DefaultCamera(), stack, lights, nil)

	if v, _ := r.Uniform(shader.NumLights); v != float32(2) {
		t.Errorf("numLights: expected 2, got %v", v)
	}
	if _, ok := r.Uniform(shader.LightUniform(shader.LightIntensity, 1)); !ok {
		t.Errorf("expected light 1 uploaded")
	}
	if _, ok := r.Uniform(shader.LightUniform(shader.LightIntensity, 2)); ok {
		t.Errorf("expected light 2 beyond the shader maximum to be skipped")
	}
	if v, _ := r.Uniform(shader.AmbientColor); v != (mgl32.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("ambientColor: expected manager ambient, got %v", v)
	}
	if v, _ := r.Uniform(shader.ModelMatrix); v != stack.ModelMatrix() {
		t.Errorf("ModelMatrix: expected stack matrix, got %v", v)
	}
	if n := r.Count("DrawElements"); n != 1 {
		t.Errorf("expected 1 draw, got %d", n)
	}
}

func TestDrawModelNamed(t *testing.T) {
	e, r := newTestEngine(t, &fakeView{}, nil)
	newLitQuad(t, e, 4)
	res := e.Resources()
	res.CreateCamera("cam")
	res.CreateMatrixStack("stack")
	res.CreateLight("a", mgl32.Vec3{})
	res.CreateLight("b", mgl32.Vec3{})

	if e.DrawModelNamed("missing", "cam", "stack") {
		t.Errorf("expected false for an unknown model")
	}
	r.Reset()
	if !e.DrawModelNamed("quad", "cam", "stack") {
		t.Fatal("expected the named model to draw")
	}
	if v, _ := r.Uniform(shader.NumLights); v != float32(2) {
		t.Errorf("expected every light used, got %v", v)
	}
}

func TestQueueModelInstances(t *testing.T) {
	e, r := newTestEngine(t, &fakeView{}, nil)
	d := newLitQuad(t, e, 1)
	cam := scene.DefaultCamera()

	nearDist, farDist := float32(1), float32(5)
	near := CameraInstance("near", cam, mgl32.Translate3D(0, 0, -1))
	near.Transparent = true
	near.Distance = &nearDist
	far := CameraInstance("far", cam, mgl32.Translate3D(0, 0, -5))
	far.Transparent = true
	far.Distance = &farDist
	far.BlendSrc, far.BlendDst = gpu.BlendSrcAlpha, gpu.BlendOne

	e.QueueModelInstance(d, near)
	e.QueueModelInstance(d, far)
	if e.Queue().Len() != 2 {
		t.Fatalf("expected 2 queued calls, got %d", e.Queue().Len())
	}
	if _, ok := e.Resources().GetProperties("near"); !ok {
		t.Errorf("expected instance properties named near")
	}

	r.Reset()
	e.DrawQueue()
	blends := r.Ops("BlendFunc")
	want := [][2]gpu.BlendFactor{
		{gpu.BlendSrcAlpha, gpu.BlendOne},
		{gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha},
		{gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha},
	}
	if len(blends) != len(want) {
		t.Fatalf("expected %d blend changes, got %d", len(want), len(blends))
	}
	for i, b := range blends {
		if b.Value != want[i] {
			t.Errorf("blend %d: expected %v, got %v", i, want[i], b.Value)
		}
	}
	if v, _ := r.Uniform(shader.ModelMatrix); v != mgl32.Translate3D(0, 0, -1) {
		t.Errorf("expected the near instance drawn last, got %v", v)
	}
	if e.Queue().Len() != 0 {
		t.Errorf("expected the queue drained")
	}
}

func TestQueueTextInstance(t *testing.T) {
	e, r := newTestEngine(t, &fakeView{}, nil)
	f, err := e.Resources().DefaultFont(16)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := e.Resources().CreateTextSprite("label", mgl32.Vec3{1, 0, 0}, "Hello", f)
	if err != nil {
		t.Fatal(err)
	}

	e.QueueTextInstance(ts, Instance{Model: mgl32.Ident4(), View: mgl32.Ident4(), Projection: mgl32.Ident4()})
	r.Reset()
	e.DrawQueue()
	if n := r.Count("DrawElements"); n != 1 {
		t.Errorf("expected 1 draw, got %d", n)
	}
	if v, _ := r.Uniform(shader.KeyDiffuseColor); v != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected text color uploaded, got %v", v)
	}
	if _, ok := e.Resources().GetProperties("label"); !ok {
		t.Errorf("expected properties named after the sprite")
	}
}

func TestQueueUnnamedInstancesKeepTheirUniforms(t *testing.T) {
	e, r := newTestEngine(t, &fakeView{}, nil)
	d := newLitQuad(t, e, 1)
	cam := scene.DefaultCamera()

	first := mgl32.Translate3D(1, 0, 0)
	second := mgl32.Translate3D(2, 0, 0)
	e.QueueModelInstance(d, CameraInstance("", cam, first))
	props := e.QueueModelInstance(d, CameraInstance("", cam, second))
	if props.Name() != "quad#1" {
		t.Errorf("expected the second instance named quad#1, got %q", props.Name())
	}

	r.Reset()
	e.DrawQueue()
	var drawn []mgl32.Mat4
	for _, c := range r.Ops("UniformMatrix4") {
		if c.Name == shader.ModelMatrix {
			drawn = append(drawn, c.Value.(mgl32.Mat4))
		}
	}
	if len(drawn) != 2 || drawn[0] != first || drawn[1] != second {
		t.Errorf("expected model matrices %v then %v, got %v", first, second, drawn)
	}

	// Names are reused after the queue is drawn.
	if props := e.QueueModelInstance(d, CameraInstance("", cam, first)); props.Name() != "quad" {
		t.Errorf("expected quad after DrawQueue, got %q", props.Name())
	}
}
