// Command demo renders a small lit scene with a day/night cycle, a
// transparent pane and a text overlay.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"brender/core"
	"brender/internal/logger"
	"brender/internal/opengl"
	"brender/loader"
	"brender/render"
	"brender/renderer"
	"brender/resource"
	"brender/scene"
	"brender/shader"
)

// input is the part of the window the camera controller reads.
type input interface {
	IsKeyPressed(key int) bool
	IsMouseButtonPressed(button int) bool
	GetCursorPos() (float64, float64)
}

// CameraController moves a camera with WASD, turns it with Q/E and looks
// around while the right mouse button is held.
type CameraController struct {
	moveSpeed  float32
	turnSpeed  float32 // radians per second
	lookSpeed  float32 // radians per pixel
	lastMouseX float64
	lastMouseY float64
	firstMouse bool
	yaw        float32
	pitch      float32
}

func NewCameraController() *CameraController {
	return &CameraController{
		moveSpeed:  6.0,
		turnSpeed:  1.5,
		lookSpeed:  0.003,
		firstMouse: true,
	}
}

func (cc *CameraController) Update(in input, camera *scene.Camera, dt float32) {
	// Cap dt to avoid huge steps on the first frames or hitches.
	dt = min(dt, 0.05)

	if in.IsMouseButtonPressed(1) {
		x, y := in.GetCursorPos()
		if cc.firstMouse {
			cc.lastMouseX, cc.lastMouseY = x, y
			cc.firstMouse = false
		}
		cc.yaw -= float32(x-cc.lastMouseX) * cc.lookSpeed
		cc.pitch -= float32(y-cc.lastMouseY) * cc.lookSpeed
		cc.lastMouseX, cc.lastMouseY = x, y
	} else {
		cc.firstMouse = true
	}
	if in.IsKeyPressed(core.KeyQ) {
		cc.yaw += cc.turnSpeed * dt
	}
	if in.IsKeyPressed(core.KeyE) {
		cc.yaw -= cc.turnSpeed * dt
	}
	limit := mgl32.DegToRad(88)
	cc.pitch = mgl32.Clamp(cc.pitch, -limit, limit)

	camera.SetRotation(mgl32.HomogRotate3DY(cc.yaw).Mul4(mgl32.HomogRotate3DX(cc.pitch)))

	// Level movement: strafing and walking ignore pitch.
	forward := mgl32.HomogRotate3DY(cc.yaw).Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	right := mgl32.Vec3{-forward.Z(), 0, forward.X()}
	var move mgl32.Vec3
	if in.IsKeyPressed(core.KeyW) {
		move = move.Add(forward)
	}
	if in.IsKeyPressed(core.KeyS) {
		move = move.Sub(forward)
	}
	if in.IsKeyPressed(core.KeyD) {
		move = move.Add(right)
	}
	if in.IsKeyPressed(core.KeyA) {
		move = move.Sub(right)
	}
	if move.Len() > 0 {
		camera.Position = camera.Position.Add(move.Normalize().Mul(cc.moveSpeed * dt))
	}
}

// object is a model placed in the world with optional culling bounds.
type object struct {
	name        string
	model       render.Drawable
	transform   mgl32.Mat4
	bounds      *scene.AABB
	transparent bool
}

type demo struct {
	in        input
	modelFile string

	camera   *scene.Camera
	sun      *scene.Light
	lamp     *scene.Light
	objects  []object
	hud      *render.TextSprite
	overlay  DebugOverlay
	control  *CameraController
	dayNight *DayNight

	fpsFrames  int
	fpsElapsed float64
	fps        float64
	visible    int
}

func newDemo(in input, modelFile string) *demo {
	return &demo{
		in:        in,
		modelFile: modelFile,
		control:   NewCameraController(),
		dayNight:  NewDayNight(),
	}
}

func solid(name string, kd mgl32.Vec3, ns float32) render.MaterialData {
	return render.MaterialData{
		Name:    name,
		Vectors: map[string]mgl32.Vec3{shader.KeyDiffuseColor: kd, shader.KeySpecularColor: {0.3, 0.3, 0.3}},
		Scalars: map[string]float32{shader.KeySpecularExponent: ns},
	}
}

// addPrimitive creates a model from generated geometry and records its
// local bounds for culling.
func (d *demo) addPrimitive(res *resource.Manager, data render.ModelData, transform mgl32.Mat4, transparent bool) error {
	model, err := res.CreateModel(data.Name, data, res.DefaultShaderOptions())
	if err != nil {
		return err
	}
	bounds := scene.ComputeAABB(data.Groups[0].Vertices)
	d.objects = append(d.objects, object{
		name:        data.Name,
		model:       model,
		transform:   transform,
		bounds:      &bounds,
		transparent: transparent,
	})
	return nil
}

func (d *demo) Init(e *renderer.Engine) error {
	res := e.Resources()
	cfg := e.Config()

	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	d.camera = res.CreateCameraAt("main", mgl32.Vec3{0, 2, 10}, mgl32.Vec3{}, 60, aspect, 0.1, 200)
	d.sun = res.CreateLight("sun", mgl32.Vec3{0, 40, 14})
	d.lamp = res.CreateColoredLight("lamp", mgl32.Vec3{3, 2, 2},
		mgl32.Vec3{1, 0.55, 0.2}, mgl32.Vec3{1, 0.8, 0.5}, 60, 1, 25)

	if err := d.addPrimitive(res, loader.Primitive("floor",
		loader.Plane("floor", "", 40, 40, 8), solid("ground", mgl32.Vec3{0.62, 0.58, 0.52}, 4)),
		mgl32.Ident4(), false); err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		x := float32(i-2) * 3
		name := fmt.Sprintf("crate_%d", i)
		if err := d.addPrimitive(res, loader.Primitive(name,
			loader.Cube(name, "", 1.5), solid("brick", mgl32.Vec3{0.70, 0.43, 0.30}, 16)),
			mgl32.Translate3D(x, 0.75, 0), false); err != nil {
			return err
		}
	}
	if err := d.addPrimitive(res, loader.Primitive("ball",
		loader.Sphere("ball", "", 1, 32, 16), solid("metal", mgl32.Vec3{0.8, 0.8, 0.85}, 64)),
		mgl32.Translate3D(0, 1, 4), false); err != nil {
		return err
	}

	glass := solid("glass", mgl32.Vec3{0.5, 0.7, 1}, 96)
	glass.Scalars[shader.Transparency] = 0.35
	for i, z := range []float32{2, 6} {
		name := fmt.Sprintf("pane_%d", i)
		if err := d.addPrimitive(res, loader.Primitive(name, loader.Cube(name, "", 1), glass),
			mgl32.Translate3D(-2, 1.5, z).Mul4(mgl32.Scale3D(2, 3, 0.1)), true); err != nil {
			return err
		}
	}

	if d.modelFile != "" {
		m, err := res.LoadModel(d.modelFile, resource.ModelOptions{
			Options: loader.Options{ComputeTangents: true},
			Shader:  res.DefaultShaderOptions(),
		})
		if err != nil {
			return fmt.Errorf("load %s: %w", d.modelFile, err)
		}
		d.objects = append(d.objects, object{name: m.Name(), model: m, transform: mgl32.Translate3D(0, 0, -4)})
	}

	font, err := res.DefaultFont(32)
	if err != nil {
		return err
	}
	d.hud, err = res.CreateTextSprite("hud", mgl32.Vec3{1, 1, 1}, " ", font)
	if err != nil {
		return err
	}
	logger.Log.Info("demo scene ready", zap.Int("objects", len(d.objects)), zap.Int("resources", res.Len()))
	return nil
}

func (d *demo) Loop(e *renderer.Engine, dt, elapsed float64) {
	if d.in.IsKeyPressed(core.KeyEscape) {
		_ = e.Stop()
		return
	}
	if d.in.IsKeyPressed(core.KeySpace) {
		d.dayNight.Time += float32(dt) / 4
	}

	vp := e.Device().Viewport()
	d.camera.UpdateAspectRatio(float32(vp.Width), float32(vp.Height))
	d.control.Update(d.in, d.camera, float32(dt))
	d.dayNight.Update(float32(dt))
	d.dayNight.Apply(e, d.sun)

	// The lamp circles the ball.
	a := float64(elapsed)
	d.lamp.Position = mgl32.Vec3{float32(3 * math.Cos(a)), 2, 4 + float32(3*math.Sin(a))}

	frustum := d.camera.Frustum()
	d.visible = 0
	for _, o := range d.objects {
		if o.bounds != nil {
			world := o.bounds.Transform(o.transform)
			if !world.IntersectsFrustum(&frustum) {
				continue
			}
		}
		d.visible++
		in := renderer.CameraInstance(o.name, d.camera, o.transform, d.sun, d.lamp)
		in.Transparent = o.transparent
		if o.transparent && o.bounds != nil {
			dist := d.camera.Position.Sub(mgl32.TransformCoordinate(o.bounds.Center(), o.transform)).Len()
			in.Distance = &dist
		}
		e.QueueModelInstance(o.model, in)
	}

	d.updateOverlay(dt)
	// The text quad is centred; shift it so its left edge sits at the anchor.
	aspect := float32(vp.Width) / max(float32(vp.Height), 1)
	e.QueueTextInstance(d.hud, renderer.Instance{
		Name:       "hud",
		Model:      mgl32.Translate3D(-aspect+0.05, 0.92, 0).Mul4(mgl32.Scale3D(0.1, 0.1, 1)).Mul4(mgl32.Translate3D(d.hud.Width()/2, 0, 0)),
		View:       mgl32.Ident4(),
		Projection: mgl32.Ortho(-aspect, aspect, -1, 1, -1, 1),
	})
	e.DrawQueue()
}

func (d *demo) updateOverlay(dt float64) {
	d.fpsFrames++
	d.fpsElapsed += dt
	if d.fpsElapsed < 0.5 {
		return
	}
	d.fps = float64(d.fpsFrames) / d.fpsElapsed
	d.fpsFrames, d.fpsElapsed = 0, 0

	d.overlay.Clear()
	d.overlay.AddLine("%.0f fps", d.fps)
	d.overlay.AddLine("%s", d.dayNight.TimeOfDayStr())
	d.overlay.AddLine("%d/%d visible", d.visible, len(d.objects))
	d.overlay.Sync(d.hud)
}

func (d *demo) Terminate(e *renderer.Engine) {
	logger.Log.Info("demo finished", zap.Uint64("frames", e.Frames()), zap.Float64("elapsed", e.ElapsedTime()))
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	modelFile := flag.String("model", "", "OBJ or glTF model to load from the data path")
	flag.Parse()

	if err := run(*configPath, *modelFile); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run(configPath, modelFile string) error {
	cfg := core.DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 1280, 720
	cfg.Window.Title = "bRenderer demo"
	if configPath != "" {
		var err error
		if cfg, err = core.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return err
	}
	defer logger.Sync()

	window, err := core.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	dev, err := opengl.NewDevice()
	if err != nil {
		window.Destroy()
		return err
	}

	engine, err := renderer.New(cfg, window, dev, newDemo(window, modelFile))
	if err != nil {
		window.Destroy()
		return err
	}
	defer engine.Terminate()

	if err := engine.Init(); err != nil {
		return err
	}
	return engine.Run()
}
