package render

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"brender/gpu"
	"brender/gpu/gputest"
	"brender/shader"
)

func newTestShader(t *testing.T, r *gputest.Recorder) *Shader {
	t.Helper()
	src := shader.Generate(shader.Features{Diffuse: true, DiffuseColor: true, DiffuseMap: true}, shader.DefaultDesktop)
	s, err := NewShader(r, src, 0)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	return s
}

func newTestGeometry(r *gputest.Recorder, s *Shader, material string) *Geometry {
	m := NewMaterial(material, s)
	g := NewGeometry(r, QuadData(material, 1, 1), m)
	m.Release()
	return g
}

func TestShaderFailures(t *testing.T) {
	r := gputest.NewRecorder()
	r.FailCompile = true
	if _, err := NewShader(r, shader.Source{}, 0); !errors.Is(err, gpu.ErrCompile) {
		t.Errorf("expected ErrCompile, got %v", err)
	}
	r.FailCompile = false
	r.FailLink = true
	if _, err := NewShader(r, shader.Source{}, 0); !errors.Is(err, gpu.ErrLink) {
		t.Errorf("expected ErrLink, got %v", err)
	}
	if n := r.Live("program"); n != 0 {
		t.Errorf("expected no live programs, got %d", n)
	}
}

func TestShaderStates(t *testing.T) {
	r := gputest.NewRecorder()
	s, err := NewShader(r, shader.Source{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != ShaderLinked {
		t.Errorf("expected %v, got %v", ShaderLinked, s.State())
	}

	r.FailCompile = true
	failed := &Shader{dev: r, attributes: vertexAttributes()}
	if failed.State() != ShaderUncompiled {
		t.Errorf("expected %v, got %v", ShaderUncompiled, failed.State())
	}
	if err := failed.link(shader.Source{}); !errors.Is(err, gpu.ErrCompile) {
		t.Errorf("expected ErrCompile, got %v", err)
	}
	if failed.State() != ShaderFailed {
		t.Errorf("expected %v, got %v", ShaderFailed, failed.State())
	}

	// Failed is terminal.
	r.FailCompile = false
	if err := failed.link(shader.Source{}); err == nil || failed.State() != ShaderFailed {
		t.Errorf("expected relinking a failed program to be refused, got %v in state %v", err, failed.State())
	}
	if n := r.Live("program"); n != 1 {
		t.Errorf("expected only the linked program live, got %d", n)
	}
}

func TestShaderUniformCache(t *testing.T) {
	r := gputest.NewRecorder()
	r.Missing["unused"] = true
	s := newTestShader(t, r)
	s.Bind()

	s.SetFloat("unused", 1)
	s.SetFloat("unused", 2)
	if r.LocationLookups != 1 {
		t.Errorf("expected one lookup for an absent uniform, got %d", r.LocationLookups)
	}
	if r.Count("Uniform1f") != 0 {
		t.Errorf("expected absent uniform sets to be no-ops")
	}

	s.SetVector3("Kd", mgl32.Vec3{1, 0, 0})
	s.SetVector3("Kd", mgl32.Vec3{0, 1, 0})
	if r.LocationLookups != 2 {
		t.Errorf("expected one lookup per name, got %d", r.LocationLookups)
	}
	if v, _ := r.Uniform("Kd"); v != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected last Kd value, got %v", v)
	}
	if s.HasUniform("unused") || !s.HasUniform("Kd") {
		t.Errorf("HasUniform: unexpected result")
	}
}

func TestShaderTextureUnits(t *testing.T) {
	r := gputest.NewRecorder()
	r.TextureUnits = 2
	s := newTestShader(t, r)
	tex := NewTexture(r, gpu.Image{Width: 1, Height: 1, Pixels: make([]byte, 4)})

	s.Bind()
	s.SetTexture("a", tex)
	s.SetTexture("b", tex)
	s.SetTexture("c", tex)
	if n := r.Count("BindTexture"); n != 2 {
		t.Errorf("expected binds to stop at the unit limit, got %d", n)
	}

	r.Reset()
	s.Bind()
	s.SetTexture("a", tex)
	if v, _ := r.Uniform("a"); v != int32(0) {
		t.Errorf("expected units to restart at zero after Bind, got %v", v)
	}
}

func TestMaterialBindOrder(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	tex := NewTexture(r, gpu.Image{Width: 1, Height: 1, Pixels: make([]byte, 4)})

	m := NewMaterial("m", s)
	m.SetScalar("Ns", 10)
	m.SetVector("Kd", mgl32.Vec3{1, 1, 1})
	m.SetTexture("DiffuseMap", tex)

	props := NewProperties("instance")
	props.SetScalar("Ns", 99)

	r.Reset()
	m.Bind(props)
	want := []string{"DiffuseMap", "Kd", "Ns", "Ns"}
	if got := r.UniformNames(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if v, _ := r.Uniform("Ns"); v != float32(99) {
		t.Errorf("expected properties to override Ns, got %v", v)
	}
}

func TestPropertiesApplyOrder(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	p := NewProperties("p")
	p.SetScalar("s", 1)
	p.SetVector3("v3", mgl32.Vec3{})
	p.SetVector4("v4", mgl32.Vec4{})
	p.SetMatrix3("m3", mgl32.Ident3())
	p.SetMatrix4("m4", mgl32.Ident4())

	p.Apply(s)
	want := []string{"m4", "m3", "v4", "v3", "s"}
	if got := r.UniformNames(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestReferenceCounting(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	m := NewMaterial("m", s)
	g := NewGeometry(r, QuadData("g", 1, 1), m)

	s.Release()
	m.Release()
	if r.Live("program") != 1 {
		t.Fatalf("expected the geometry to keep the program alive")
	}
	g.Release()
	if r.Live("program") != 0 || r.Live("buffers") != 0 {
		t.Errorf("expected all objects destroyed, got %d programs, %d buffers", r.Live("program"), r.Live("buffers"))
	}
	if !s.Released() || !m.Released() {
		t.Errorf("expected shader and material released")
	}
	g.Release()
}

func TestGeometryDraw(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	g := newTestGeometry(r, s, "m")

	r.Reset()
	g.Draw(nil)
	if got := r.Ops("DrawElements"); len(got) != 1 || got[0].Value != int32(6) {
		t.Errorf("expected one 6-index draw, got %v", got)
	}
	if n := r.Count("VertexAttrib"); n != 5 {
		t.Errorf("expected 5 attributes enabled, got %d", n)
	}

	empty := NewGeometry(r, QuadData("empty", 1, 1), nil)
	r.Reset()
	empty.Draw(nil)
	if r.Count("DrawElements") != 0 {
		t.Errorf("expected no draw without a material")
	}
}

func TestModelGroupsAndDrawables(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	model := NewModel("house")
	model.AddGeometry("roof", newTestGeometry(r, s, "roof"))
	model.AddGeometry("walls", newTestGeometry(r, s, "walls"))
	model.AddGeometry("roof", newTestGeometry(r, s, "roof2"))

	if got := model.Groups(); !slices.Equal(got, []string{"roof", "walls"}) {
		t.Errorf("expected insertion order, got %v", got)
	}
	if n := r.Live("buffers"); n != 2 {
		t.Errorf("expected the replaced group released, got %d live", n)
	}

	m := NewMaterial("sprite", s)
	var drawables []Drawable = []Drawable{model, NewSprite(r, "sprite", m)}
	m.Release()

	r.Reset()
	for _, d := range drawables {
		d.Draw(nil)
	}
	if n := r.Count("DrawElements"); n != 3 {
		t.Errorf("expected 3 draws, got %d", n)
	}
	for _, d := range drawables {
		d.Release()
	}
	if n := r.Live("buffers"); n != 0 {
		t.Errorf("expected all buffers released, got %d", n)
	}
}

func TestRenderQueueOpaqueOrder(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	a, b, c := newTestGeometry(r, s, "A"), newTestGeometry(r, s, "B"), newTestGeometry(r, s, "C")

	q := NewRenderQueue(r)
	q.SubmitOpaque(s.Program(), "B", "g", "", b, nil)
	q.SubmitOpaque(s.Program(), "A", "g", "", a, nil)
	q.SubmitOpaque(s.Program(), "C", "g", "", c, nil)

	r.Reset()
	q.Draw()
	want := []uint32{a.Buffers().VAO, b.Buffers().VAO, c.Buffers().VAO}
	if got := r.DrawnVAOs(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRenderQueueTransparentOrder(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	near, mid, far := newTestGeometry(r, s, "near"), newTestGeometry(r, s, "mid"), newTestGeometry(r, s, "far")

	q := NewRenderQueue(r)
	q.SubmitTransparent(mid, nil, 5, gpu.BlendOne, gpu.BlendOne)
	q.SubmitTransparent(near, nil, 1, gpu.BlendSrcAlpha, gpu.BlendOne)
	q.SubmitTransparent(far, nil, 9, gpu.BlendDstColor, gpu.BlendZero)
	q.SubmitOpaque(s.Program(), "mid", "g", "", mid, nil)

	r.Reset()
	q.Draw()
	want := []uint32{mid.Buffers().VAO, far.Buffers().VAO, mid.Buffers().VAO, near.Buffers().VAO}
	if got := r.DrawnVAOs(); !slices.Equal(got, want) {
		t.Errorf("expected opaque then 9,5,1: %v, got %v", want, got)
	}

	blends := r.Ops("BlendFunc")
	wantBlends := [][2]gpu.BlendFactor{
		{gpu.BlendDstColor, gpu.BlendZero},
		{gpu.BlendOne, gpu.BlendOne},
		{gpu.BlendSrcAlpha, gpu.BlendOne},
		{gpu.BlendSrcAlpha, gpu.BlendOneMinusSrcAlpha},
	}
	if len(blends) != len(wantBlends) {
		t.Fatalf("expected %d blend changes, got %d", len(wantBlends), len(blends))
	}
	for i, b := range blends {
		if b.Value != wantBlends[i] {
			t.Errorf("blend %d: expected %v, got %v", i, wantBlends[i], b.Value)
		}
	}
	if src, dst := r.Blend(); src != gpu.BlendSrcAlpha || dst != gpu.BlendOneMinusSrcAlpha {
		t.Errorf("expected blend restored, got %v %v", src, dst)
	}
}

func TestRenderQueueDrains(t *testing.T) {
	r := gputest.NewRecorder()
	s := newTestShader(t, r)
	g := newTestGeometry(r, s, "g")

	q := NewRenderQueue(r)
	q.SubmitOpaque(s.Program(), "m", "g", "1", g, nil)
	q.SubmitTransparent(g, nil, 3, gpu.BlendOne, gpu.BlendOne)
	if q.Len() != 2 {
		t.Fatalf("expected 2 pending calls, got %d", q.Len())
	}
	q.Draw()
	if q.Len() != 0 {
		t.Errorf("expected empty queue after Draw, got %d", q.Len())
	}

	r.Reset()
	q.Draw()
	if n := r.Count("DrawElements"); n != 0 {
		t.Errorf("expected no draws from an empty queue, got %d", n)
	}
}

func TestFramebufferAutoResize(t *testing.T) {
	r := gputest.NewRecorder()
	fb := NewFramebuffer(r, 0, 0)
	if w, h := fb.Size(); w != 640 || h != 480 || !fb.AutoResize() {
		t.Fatalf("expected viewport size, got %dx%d", w, h)
	}
	tex := NewTexture(r, gpu.Image{Width: 16, Height: 16})

	r.SetViewport(gpu.Viewport{Width: 800, Height: 600})
	if err := fb.BindTexture(tex, true); err != nil {
		t.Fatal(err)
	}
	if tex.Width != 800 || tex.Height != 600 {
		t.Errorf("expected texture resized to 800x600, got %dx%d", tex.Width, tex.Height)
	}
	if r.CurrentFramebuffer() != fb.fbo {
		t.Errorf("expected framebuffer bound")
	}
	fb.Unbind()
	if r.CurrentFramebuffer() != 0 {
		t.Errorf("expected default framebuffer restored")
	}
	if vp := r.Viewport(); vp.Width != 800 || vp.Height != 600 {
		t.Errorf("expected viewport restored, got %v", vp)
	}

	fb.Release()
	if r.Live("framebuffer") != 0 || r.Live("renderbuffer") != 0 {
		t.Errorf("expected framebuffer objects deleted")
	}
}

func TestTextSprite(t *testing.T) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewFont("goregular", parsed, 24)
	if err != nil {
		t.Fatal(err)
	}
	img := f.Rasterize("Hi")
	if img.Format != gpu.FormatRed || img.Width <= 0 || len(img.Pixels) != img.Width*img.Height {
		t.Fatalf("unexpected glyph image %dx%d format %v", img.Width, img.Height, img.Format)
	}
	if !slices.ContainsFunc(img.Pixels, func(b byte) bool { return b > 0 }) {
		t.Errorf("expected some coverage")
	}

	r := gputest.NewRecorder()
	src := shader.Generate(shader.Features{Text: true, Diffuse: true, DiffuseColor: true}, shader.DefaultDesktop)
	s, err := NewShader(r, src, 0)
	if err != nil {
		t.Fatal(err)
	}
	ts := NewTextSprite(r, "label", s, mgl32.Vec3{1, 0, 0}, "Hi", f)
	ts.SetText("Hello")
	if ts.Text() != "Hello" || r.Live("texture") != 1 || r.Live("buffers") != 1 {
		t.Errorf("expected one texture and one quad after SetText, got %d textures, %d buffers",
			r.Live("texture"), r.Live("buffers"))
	}
	hello := f.Rasterize("Hello")
	if want := float32(hello.Width) / float32(hello.Height); ts.Width() != want {
		t.Errorf("Width: expected %v, got %v", want, ts.Width())
	}

	r.Reset()
	ts.Draw(nil)
	if v, _ := r.Uniform("Kd"); v != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected text color, got %v", v)
	}
	if _, ok := r.Uniform("CharacterMap"); !ok {
		t.Errorf("expected character map bound")
	}

	s.Release()
	f.Release()
	ts.Release()
	if r.Live("texture") != 0 || r.Live("program") != 0 {
		t.Errorf("expected text sprite resources released")
	}
}
