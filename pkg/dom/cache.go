package dom

import (
	"boxkit/pkg/css"
	"boxkit/pkg/host"
)

// Field names one group of cached values. Fields are bit flags.
type Field uint16

const (
	FieldColor Field = 1 << iota
	FieldBackgroundColor
	FieldBackgroundImage
	FieldBackgroundRepeat
	FieldFont
	FieldText
	FieldDimensions
	FieldDebug

	FieldAll = FieldColor | FieldBackgroundColor | FieldBackgroundImage | FieldBackgroundRepeat |
		FieldFont | FieldText | FieldDimensions | FieldDebug
)

var fieldNames = []struct {
	f    Field
	name string
}{
	{FieldColor, "color"},
	{FieldBackgroundColor, "background-color"},
	{FieldBackgroundImage, "background-image"},
	{FieldBackgroundRepeat, "background-repeat"},
	{FieldFont, "font"},
	{FieldText, "text"},
	{FieldDimensions, "dimensions"},
	{FieldDebug, "debug"},
}

func (f Field) String() string {
	s := ""
	for _, n := range fieldNames {
		if f&n.f != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// dependents lists the fields that must be recomputed once a field has been
// recomputed.
var dependents = map[Field]Field{
	FieldBackgroundImage: FieldDimensions,
	FieldFont:            FieldText | FieldDimensions,
	FieldText:            FieldDimensions,
}

// Rect is an axis-aligned box from (X1, Y1) to (X2, Y2).
type Rect struct {
	X1, Y1, X2, Y2 float64
}

func (r Rect) Width() float64  { return r.X2 - r.X1 }
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}

// ContainsRect reports whether o lies within r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X1 >= r.X1 && o.Y1 >= r.Y1 && o.X2 <= r.X2 && o.Y2 <= r.Y2
}

// Cache holds an element's computed geometry and paint values. Every field
// group has a dirty bit; layout recomputes a group only while its bit is set
// or when forced.
type Cache struct {
	Outer Rect
	Inner Rect

	Width  float64
	Height float64

	// ContentWidth/ContentHeight are the intrinsic size computed by
	// precalculate from children or text.
	ContentWidth  float64
	ContentHeight float64

	// FlowX/FlowY are the offsets assigned by the parent's flow.
	FlowX float64
	FlowY float64

	// Hidden is set for display:none elements and their descendants.
	Hidden bool

	Color            css.RGBA
	BackgroundColor  css.RGBA
	BackgroundImage  host.Texture
	BackgroundRepeat host.RepeatMode
	Font             host.Font
	Lines            []string
	LineHeight       float64

	// WrapWidth is the width Lines were wrapped to.
	WrapWidth float64

	DebugOuter css.RGBA
	DebugInner css.RGBA

	dirty Field
}

// NewCache returns a cache with every field dirty.
func NewCache() *Cache {
	return &Cache{dirty: FieldAll}
}

// Invalidate marks fields as needing recomputation.
func (c *Cache) Invalidate(f Field) { c.dirty |= f }

// IsDirty reports whether any of the given fields is dirty.
func (c *Cache) IsDirty(f Field) bool { return c.dirty&f != 0 }

// Dirty returns the set of dirty fields.
func (c *Cache) Dirty() Field { return c.dirty }

// Clean marks fields as freshly computed and invalidates their dependents.
func (c *Cache) Clean(f Field) {
	c.dirty &^= f
	for dep, dependent := range dependents {
		if f&dep != 0 {
			c.dirty |= dependent
		}
	}
}

// Geometry is the positional part of a cache, comparable with ==.
type Geometry struct {
	Outer, Inner                Rect
	Width, Height               float64
	ContentWidth, ContentHeight float64
	FlowX, FlowY                float64
	Hidden                      bool
}

// Geometry returns a snapshot of the positional values.
func (c *Cache) Geometry() Geometry {
	return Geometry{
		Outer:         c.Outer,
		Inner:         c.Inner,
		Width:         c.Width,
		Height:        c.Height,
		ContentWidth:  c.ContentWidth,
		ContentHeight: c.ContentHeight,
		FlowX:         c.FlowX,
		FlowY:         c.FlowY,
		Hidden:        c.Hidden,
	}
}
