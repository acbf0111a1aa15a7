package render

// Drawable is implemented by *Model, *Sprite and *TextSprite only.
type Drawable interface {
	Name() string
	Draw(props *Properties)
	// Geometries returns the parts submitted individually to a RenderQueue.
	Geometries() []*Geometry
	Release()

	drawable()
}

var (
	_ Drawable = (*Model)(nil)
	_ Drawable = (*Sprite)(nil)
	_ Drawable = (*TextSprite)(nil)
)
