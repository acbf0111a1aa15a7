package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
	"brender/scene"
)

func TestTimeOfDayStr(t *testing.T) {
	tests := []struct {
		time float32
		want string
	}{
		{0, "12:00 PM"},
		{0.25, "06:00 PM"},
		{0.5, "12:00 AM"},
		{0.75, "06:00 AM"},
	}
	for _, tt := range tests {
		dn := &DayNight{Time: tt.time}
		if got := dn.TimeOfDayStr(); got != tt.want {
			t.Errorf("TimeOfDayStr(%v): expected %q, got %q", tt.time, tt.want, got)
		}
	}
}

func TestSamplePalette(t *testing.T) {
	if got := samplePalette(0.5); got.sky != palettes[3].sky || got.sunIntensity != palettes[3].sunIntensity {
		t.Errorf("expected the midnight keyframe, got %+v", got)
	}
	mid := samplePalette(0.11)
	want := palettes[0].sky.Add(palettes[1].sky).Mul(0.5)
	if !mid.sky.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("expected %v halfway to golden hour, got %v", want, mid.sky)
	}
	// The last keyframe wraps back to noon.
	late := samplePalette(0.999)
	if !late.sky.ApproxEqualThreshold(palettes[0].sky, 0.01) {
		t.Errorf("expected nearly noon sky, got %v", late.sky)
	}
}

func TestDayNightWraps(t *testing.T) {
	dn := NewDayNight()
	dn.Time = 0.9
	dn.Update(24)
	if mgl32.Abs(dn.Time-0.1) > 1e-4 {
		t.Errorf("expected time 0.1 after wrapping, got %v", dn.Time)
	}
	dn.Active = false
	dn.Update(60)
	if mgl32.Abs(dn.Time-0.1) > 1e-4 {
		t.Errorf("expected an inactive cycle to stay put, got %v", dn.Time)
	}
}

// near compares component-wise against an absolute tolerance.
func near(a, b mgl32.Vec3) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > 1e-5 {
			return false
		}
	}
	return true
}

type fakeInput struct {
	keys map[int]bool
}

func (f fakeInput) IsKeyPressed(key int) bool        { return f.keys[key] }
func (f fakeInput) IsMouseButtonPressed(int) bool    { return false }
func (f fakeInput) GetCursorPos() (float64, float64) { return 0, 0 }

func TestCameraControllerMovesLevel(t *testing.T) {
	cam := scene.NewCamera(60, 1, 0.1, 100)
	cc := NewCameraController()

	cc.Update(fakeInput{keys: map[int]bool{core.KeyW: true}}, cam, 0.05)
	if !near(cam.Position, mgl32.Vec3{0, 0, -0.3}) {
		t.Errorf("forward: expected (0,0,-0.3), got %v", cam.Position)
	}

	// Large steps are capped.
	cam.Position = mgl32.Vec3{}
	cc.Update(fakeInput{keys: map[int]bool{core.KeyD: true}}, cam, 1)
	if !near(cam.Position, mgl32.Vec3{0.3, 0, 0}) {
		t.Errorf("strafe: expected (0.3,0,0), got %v", cam.Position)
	}

	cam.Position = mgl32.Vec3{}
	cc.yaw = mgl32.DegToRad(90)
	cc.Update(fakeInput{keys: map[int]bool{core.KeyW: true}}, cam, 0.05)
	if !near(cam.Position, mgl32.Vec3{-0.3, 0, 0}) {
		t.Errorf("turned forward: expected (-0.3,0,0), got %v", cam.Position)
	}
	if !near(cam.Orientation(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected backward axis +X after a left turn, got %v", cam.Orientation())
	}
}

func TestDebugOverlayText(t *testing.T) {
	var do DebugOverlay
	do.AddLine("%d fps", 60)
	do.AddLine("%s", "noon")
	if got := do.Text(); got != "60 fps   noon" {
		t.Errorf("expected joined lines, got %q", got)
	}
	do.Clear()
	if do.Text() != "" {
		t.Errorf("expected empty text after Clear")
	}
}
