package layout

import (
	"strconv"
	"strings"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/host"
)

type axis int

const (
	horizontal axis = iota
	vertical
)

// props returns the size, min, max, leading and trailing offset properties
// of the axis.
func (a axis) props() (size, minSize, maxSize, start, end string) {
	if a == horizontal {
		return css.PropWidth, css.PropMinWidth, css.PropMaxWidth, css.PropLeft, css.PropRight
	}
	return css.PropHeight, css.PropMinHeight, css.PropMaxHeight, css.PropTop, css.PropBottom
}

func (a axis) screen(le *LayoutEngine) float64 {
	w, h := le.ScreenSize()
	if a == horizontal {
		return w
	}
	return h
}

// Calculate resolves concrete geometry and paint values top-down. Per
// element the order is font, color, background color, background image,
// background repeat, dimensions and debug colors. Only dirty fields are
// recomputed unless force is set. When an element's geometry changes its
// children's dimensions are recomputed as well.
func (le *LayoutEngine) Calculate(root *dom.Element, force bool) {
	le.calculate(root, force, false)
}

func (le *LayoutEngine) calculate(e *dom.Element, force, parentMoved bool) {
	le.ensureFont(e, force)
	le.calculateColor(e, force)
	le.calculateBackgroundColor(e, force)
	le.ensureBackgroundImage(e, force)
	le.calculateBackgroundRepeat(e, force)
	moved := le.calculateDimensions(e, force || parentMoved)
	le.calculateDebug(e, force)

	for _, child := range e.Children() {
		le.calculate(child, force, moved)
	}
}

func (le *LayoutEngine) calculateColor(e *dom.Element, force bool) {
	c := e.Cache()
	if !force && !c.IsDirty(dom.FieldColor) {
		return
	}
	inherited := css.Black
	if p := e.Parent(); p != nil {
		inherited = p.Cache().Color
	}
	c.Color = css.ResolveColor(e.Style().Get(css.PropColor), inherited)
	c.Clean(dom.FieldColor)
}

func (le *LayoutEngine) calculateBackgroundColor(e *dom.Element, force bool) {
	c := e.Cache()
	if !force && !c.IsDirty(dom.FieldBackgroundColor) {
		return
	}
	inherited := css.Transparent
	if p := e.Parent(); p != nil {
		inherited = p.Cache().BackgroundColor
	}
	c.BackgroundColor = css.ResolveColor(e.Style().Get(css.PropBackgroundColor), inherited)
	c.Clean(dom.FieldBackgroundColor)
}

func (le *LayoutEngine) calculateBackgroundRepeat(e *dom.Element, force bool) {
	c := e.Cache()
	if !force && !c.IsDirty(dom.FieldBackgroundRepeat) {
		return
	}
	c.BackgroundRepeat = host.ParseRepeatMode(strings.TrimSpace(e.Style().Get(css.PropBackgroundRepeat)))
	c.Clean(dom.FieldBackgroundRepeat)
}

func (le *LayoutEngine) calculateDebug(e *dom.Element, force bool) {
	c := e.Cache()
	if !force && !c.IsDirty(dom.FieldDebug) {
		return
	}
	style := e.Style()
	c.DebugOuter = css.ResolveColor(style.Get(css.PropDebugColorOuter), css.Transparent)
	c.DebugInner = css.ResolveColor(style.Get(css.PropDebugColorInner), css.Transparent)
	c.Clean(dom.FieldDebug)
}

// calculateDimensions resolves the outer and inner boxes and reports
// whether the geometry changed. Percentages resolve against the parent's
// resolved size, or the viewport for a root. An explicit left or top is an
// absolute coordinate; without one the box starts at the parent's outer
// origin plus the flow offset.
func (le *LayoutEngine) calculateDimensions(e *dom.Element, force bool) bool {
	c := e.Cache()
	if !force && !c.IsDirty(dom.FieldDimensions) {
		return false
	}
	before := c.Geometry()

	var origin dom.Rect
	var baseW, baseH float64
	if p := e.Parent(); p != nil {
		pc := p.Cache()
		origin, baseW, baseH = pc.Outer, pc.Width, pc.Height
	} else {
		baseW, baseH = le.ScreenSize()
		origin = dom.Rect{X2: baseW, Y2: baseH}
	}

	var w, h, x, y float64
	switch {
	case c.Hidden:
		x, y = origin.X1, origin.Y1
	case e.Kind() == dom.KindWindow:
		w, h = le.ScreenSize()
	default:
		w, h = le.boxSize(e, baseW, baseH)
		x = le.offset(e, horizontal, origin.X1+c.FlowX, origin.X2, baseW, w)
		y = le.offset(e, vertical, origin.Y1+c.FlowY, origin.Y2, baseH, h)
	}

	c.Width, c.Height = w, h
	c.Outer = dom.Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
	// Padding is not resolved; the inner box is the outer box.
	c.Inner = c.Outer
	c.Clean(dom.FieldDimensions)
	return c.Geometry() != before
}

// offset resolves the leading edge of a box along one axis. A trailing
// offset (right, bottom) is measured from the containing box's far edge.
func (le *LayoutEngine) offset(e *dom.Element, a axis, flowStart, containerEnd, base, size float64) float64 {
	_, _, _, start, end := a.props()
	style := e.Style()
	if v, ok := length(style.Get(start), base); ok {
		return v
	}
	if v, ok := length(style.Get(end), base); ok {
		return containerEnd - v - size
	}
	return flowStart
}

// boxSize resolves an element's outer size. Each axis uses the first that
// applies: an explicit CSS length, the img width/height attribute, the
// loaded texture's natural size, the intrinsic content size. The result is
// clamped by min-* and max-*, min winning over max.
func (le *LayoutEngine) boxSize(e *dom.Element, baseW, baseH float64) (float64, float64) {
	return le.axisSize(e, horizontal, baseW), le.axisSize(e, vertical, baseH)
}

func (le *LayoutEngine) axisSize(e *dom.Element, a axis, base float64) float64 {
	size, minSize, maxSize, _, _ := a.props()
	style := e.Style()
	c := e.Cache()

	v, ok := length(style.Get(size), base)
	if !ok && e.Kind() == dom.KindImg {
		v, ok = imgAttr(e, size)
		if !ok && c.BackgroundImage != nil {
			tw, th := c.BackgroundImage.Size()
			v, ok = th, true
			if a == horizontal {
				v = tw
			}
		}
	}
	if !ok {
		v = c.ContentHeight
		if a == horizontal {
			v = c.ContentWidth
		}
	}

	if m, ok := length(style.Get(maxSize), base); ok {
		v = min(v, m)
	}
	if m, ok := length(style.Get(minSize), base); ok {
		v = max(v, m)
	}
	return max(v, 0)
}

// imgAttr reads a numeric width or height attribute. A "px" suffix is
// tolerated.
func imgAttr(e *dom.Element, name string) (float64, bool) {
	raw, ok := e.Attr(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "px"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// availableSize is the size an element's content may use along an axis:
// the nearest declared size among the element and its ancestors, with
// percentages resolved along the same chain, else the viewport. It only
// reads styles so it is stable within a pass.
func (le *LayoutEngine) availableSize(e *dom.Element, a axis) float64 {
	for n := e; n != nil; n = n.Parent() {
		if v, ok := le.declaredSize(n, a); ok {
			return v
		}
	}
	return a.screen(le)
}

func (le *LayoutEngine) declaredSize(e *dom.Element, a axis) (float64, bool) {
	if e.Kind() == dom.KindWindow {
		return a.screen(le), true
	}
	size, _, _, _, _ := a.props()
	l, err := css.ParseLength(e.Style().Get(size))
	if err != nil {
		return 0, false
	}
	if l.Unit != css.UnitPercent {
		return l.Value, true
	}
	base := a.screen(le)
	if p := e.Parent(); p != nil {
		base = le.availableSize(p, a)
	}
	return l.Resolve(base), true
}
