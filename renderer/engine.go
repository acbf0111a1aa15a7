// Package renderer drives a Project through the engine lifecycle and
// provides the per-model draw and queue helpers.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"brender/core"
	"brender/gpu"
	"brender/internal/logger"
	"brender/render"
	"brender/resource"
)

// ErrState is returned when a lifecycle method is called in the wrong state.
var ErrState = errors.New("invalid engine state")

type State int

const (
	StateCreated State = iota
	StateInitialized
	StateRunning
	StateStopped
	StateTerminated
)

var stateNames = [...]string{"created", "initialized", "running", "stopped", "terminated"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// View hosts the GPU context. *core.Window implements it.
type View interface {
	ShouldClose() bool
	PollEvents()
	SwapBuffers()
	GetFramebufferSize() (int, int)
	// Time returns seconds since an arbitrary fixed point.
	Time() float64
	Destroy()
}

// Project is the application driven by an Engine.
type Project interface {
	// Init creates the project's resources. An error aborts engine initialization.
	Init(e *Engine) error
	// Loop updates and draws one frame. dt is the time since the previous
	// frame, elapsed the time since Run started, both in seconds.
	Loop(e *Engine, dt, elapsed float64)
	// Terminate runs before the engine releases its resources.
	Terminate(e *Engine)
}

var _ View = (*core.Window)(nil)

// Engine owns the view, the device, the resource manager and the render
// queue. It must be used from the goroutine that owns the GPU context.
type Engine struct {
	cfg       core.Config
	view      View
	dev       gpu.Device
	project   Project
	resources *resource.Manager
	queue     *render.RenderQueue
	// queued counts instance names used since the last DrawQueue.
	queued map[string]int

	state      State
	ClearColor core.Color

	start   float64
	last    float64
	elapsed float64
	frames  uint64
}

// New creates an engine in StateCreated. Nothing touches the GPU until Init.
func New(cfg core.Config, view View, dev gpu.Device, project Project) (*Engine, error) {
	res, err := resource.NewManager(dev, cfg)
	if err != nil {
		return nil, fmt.Errorf("resource manager: %w", err)
	}
	return &Engine{
		cfg:        cfg,
		view:       view,
		dev:        dev,
		project:    project,
		resources:  res,
		queue:      render.NewRenderQueue(dev),
		queued:     make(map[string]int),
		ClearColor: core.Color{A: 1},
	}, nil
}

func (e *Engine) State() State                 { return e.state }
func (e *Engine) Config() core.Config          { return e.cfg }
func (e *Engine) Device() gpu.Device           { return e.dev }
func (e *Engine) View() View                   { return e.view }
func (e *Engine) Resources() *resource.Manager { return e.resources }
func (e *Engine) Queue() *render.RenderQueue   { return e.queue }
func (e *Engine) Frames() uint64               { return e.frames }
func (e *Engine) ElapsedTime() float64         { return e.elapsed }

func (e *Engine) transition(to State, from ...State) error {
	for _, s := range from {
		if e.state == s {
			logger.System("engine state", zap.Stringer("from", e.state), zap.Stringer("to", to))
			e.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: cannot go from %s to %s", ErrState, e.state, to)
}

// Init sets the default GPU state (depth test LEQUAL, back-face culling,
// SRC_ALPHA/ONE_MINUS_SRC_ALPHA blending), sizes the viewport and runs
// Project.Init. A failing project leaves the engine in StateCreated.
func (e *Engine) Init() error {
	if e.state != StateCreated {
		return fmt.Errorf("%w: init in state %s", ErrState, e.state)
	}
	e.dev.InitState()
	e.dev.BlendFunc(gpu.DefaultBlendSrc, gpu.DefaultBlendDst)
	e.updateViewport()
	e.dev.Clear(e.ClearColor)

	if e.project != nil {
		if err := e.project.Init(e); err != nil {
			return fmt.Errorf("project init: %w", err)
		}
	}
	return e.transition(StateInitialized, StateCreated)
}

// Run loops until Stop is called or the view is closed. A stopped engine
// can be run again.
func (e *Engine) Run() error {
	if err := e.transition(StateRunning, StateInitialized, StateStopped); err != nil {
		return err
	}
	now := e.view.Time()
	e.start = now - e.elapsed
	e.last = now

	for e.state == StateRunning && !e.view.ShouldClose() {
		e.Frame()
	}
	if e.state == StateRunning {
		return e.transition(StateStopped, StateRunning)
	}
	return nil
}

// Frame runs one iteration of the main loop: resize, clear, Project.Loop,
// swap and poll.
func (e *Engine) Frame() {
	now := e.view.Time()
	dt := now - e.last
	e.last = now
	e.elapsed = now - e.start

	e.updateViewport()
	e.dev.Clear(e.ClearColor)
	if e.project != nil {
		e.project.Loop(e, dt, e.elapsed)
	}
	e.view.SwapBuffers()
	e.view.PollEvents()
	e.frames++
}

// Stop ends Run after the current frame.
func (e *Engine) Stop() error {
	return e.transition(StateStopped, StateRunning)
}

// Terminate runs Project.Terminate, releases every resource while the GPU
// context still exists, then destroys the view.
func (e *Engine) Terminate() error {
	if e.state == StateTerminated {
		return fmt.Errorf("%w: already terminated", ErrState)
	}
	if e.state != StateCreated && e.project != nil {
		e.project.Terminate(e)
	}
	e.queue.Clear()
	clear(e.queued)
	e.resources.Clear()
	e.view.Destroy()
	logger.System("engine terminated", zap.Uint64("frames", e.frames))
	e.state = StateTerminated
	return nil
}

func (e *Engine) updateViewport() {
	w, h := e.view.GetFramebufferSize()
	vp := gpu.Viewport{Width: int32(w), Height: int32(h)}
	if e.dev.Viewport() != vp {
		e.dev.SetViewport(vp)
	}
}
