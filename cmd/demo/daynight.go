package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
	"brender/renderer"
	"brender/scene"
)

// dayPalette holds the sky and light values for one key time of day.
type dayPalette struct {
	t            float32 // normalised time 0..1
	sky          mgl32.Vec3
	sunColor     mgl32.Vec3
	sunIntensity float32
	ambient      mgl32.Vec3
}

// palettes is ordered by t and wraps (0 == 1).
var palettes = []dayPalette{
	{t: 0.00, sky: mgl32.Vec3{0.58, 0.75, 0.95}, sunColor: mgl32.Vec3{1.00, 0.98, 0.92}, sunIntensity: 1200, ambient: mgl32.Vec3{0.16, 0.18, 0.26}}, // noon
	{t: 0.22, sky: mgl32.Vec3{0.90, 0.52, 0.18}, sunColor: mgl32.Vec3{1.00, 0.65, 0.25}, sunIntensity: 900, ambient: mgl32.Vec3{0.10, 0.12, 0.20}},  // golden hour
	{t: 0.30, sky: mgl32.Vec3{0.50, 0.22, 0.28}, sunColor: mgl32.Vec3{0.70, 0.40, 0.55}, sunIntensity: 250, ambient: mgl32.Vec3{0.06, 0.07, 0.14}},  // dusk
	{t: 0.50, sky: mgl32.Vec3{0.04, 0.04, 0.08}, sunColor: mgl32.Vec3{0.40, 0.45, 0.65}, sunIntensity: 120, ambient: mgl32.Vec3{0.03, 0.04, 0.09}},  // midnight, moonlight
	{t: 0.70, sky: mgl32.Vec3{0.40, 0.18, 0.24}, sunColor: mgl32.Vec3{0.75, 0.42, 0.60}, sunIntensity: 200, ambient: mgl32.Vec3{0.06, 0.07, 0.14}},  // pre-dawn
	{t: 0.78, sky: mgl32.Vec3{0.88, 0.45, 0.22}, sunColor: mgl32.Vec3{1.00, 0.60, 0.28}, sunIntensity: 700, ambient: mgl32.Vec3{0.09, 0.10, 0.17}},  // sunrise
}

// DayNight drives the animated day/night cycle.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Speed  float32 // full-cycle duration in seconds
	Active bool
	// Distance of the sun light from the origin.
	Orbit float32
}

func NewDayNight() *DayNight {
	return &DayNight{Speed: 120, Active: true, Orbit: 40}
}

func (dn *DayNight) Update(dt float32) {
	if !dn.Active || dn.Speed <= 0 {
		return
	}
	dn.Time += dt / dn.Speed
	dn.Time -= float32(math.Floor(float64(dn.Time)))
}

// samplePalette interpolates the two keyframes around t.
func samplePalette(t float32) dayPalette {
	n := len(palettes)
	for i := range palettes {
		a, b := palettes[i], palettes[(i+1)%n]
		ta, tb := a.t, b.t
		if i == n-1 {
			tb = 1
		}
		local := t
		if i == n-1 && t < palettes[0].t {
			local = t + 1
		}
		if local < ta || local >= tb {
			continue
		}
		f := (local - ta) / (tb - ta)
		return dayPalette{
			t:            t,
			sky:          lerp(a.sky, b.sky, f),
			sunColor:     lerp(a.sunColor, b.sunColor, f),
			sunIntensity: a.sunIntensity + (b.sunIntensity-a.sunIntensity)*f,
			ambient:      lerp(a.ambient, b.ambient, f),
		}
	}
	return palettes[0]
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Apply pushes the current palette to the engine clear color, the ambient
// color and the sun light. sun may be nil.
func (dn *DayNight) Apply(e *renderer.Engine, sun *scene.Light) {
	p := samplePalette(dn.Time)

	e.ClearColor = core.Color{R: p.sky[0], G: p.sky[1], B: p.sky[2], A: 1}
	e.Resources().SetAmbientColor(p.ambient)

	if sun != nil {
		// Full rotation in the xy plane, tilted along z. Overhead at noon.
		angle := float64(dn.Time * 2 * math.Pi)
		dir := mgl32.Vec3{float32(math.Sin(angle)), float32(math.Cos(angle)), 0.35}.Normalize()
		sun.Position = dir.Mul(dn.Orbit)
		sun.DiffuseColor = p.sunColor
		sun.SpecularColor = p.sunColor
		sun.Intensity = p.sunIntensity
	}
}

// TimeOfDayStr returns a clock label such as "06:30 PM".
func (dn *DayNight) TimeOfDayStr() string {
	// Time 0 is noon.
	minutes := int(dn.Time*24*60) + 12*60
	h := (minutes / 60) % 24
	m := minutes % 60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	displayH := h % 12
	if displayH == 0 {
		displayH = 12
	}
	return fmt.Sprintf("%02d:%02d %s", displayH, m, period)
}
