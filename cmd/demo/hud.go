package main

import (
	"fmt"
	"strings"

	"brender/render"
)

// DebugOverlay collects status lines shown in a single text sprite.
type DebugOverlay struct {
	lines []string
	shown string
}

func (do *DebugOverlay) AddLine(format string, args ...any) {
	do.lines = append(do.lines, fmt.Sprintf(format, args...))
}

func (do *DebugOverlay) Clear() {
	do.lines = do.lines[:0]
}

// Text joins the lines; text sprites render a single line.
func (do *DebugOverlay) Text() string {
	return strings.Join(do.lines, "   ")
}

// Sync re-rasterizes ts only when the text changed.
func (do *DebugOverlay) Sync(ts *render.TextSprite) {
	text := do.Text()
	if text == do.shown && text == ts.Text() {
		return
	}
	ts.SetText(text)
	do.shown = text
}
