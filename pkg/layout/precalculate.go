package layout

import (
	"strings"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
)

// Precalculate computes intrinsic content sizes bottom-up. Children are
// visited first; each element then lays its children out with the flow
// algorithm for its display value and stores the result in ContentWidth and
// ContentHeight. Raw text is wrapped and measured here.
//
// Any change to content size, flow offset or visibility invalidates the
// element's dimensions so the following Calculate recomputes them.
func (le *LayoutEngine) Precalculate(root *dom.Element, force bool) {
	le.precalculate(root, force, false)
}

func (le *LayoutEngine) precalculate(e *dom.Element, force, hiddenAncestor bool) {
	c := e.Cache()
	display := displayOf(e)
	hidden := hiddenAncestor || display == "none"
	if c.Hidden != hidden {
		c.Hidden = hidden
		c.Invalidate(dom.FieldDimensions)
	}

	for _, child := range e.Children() {
		le.precalculate(child, force, hidden)
	}

	var w, h float64
	switch {
	case hidden:
	case e.Kind() == dom.KindRawText:
		w, h = le.measureText(e, force)
	default:
		le.ensureBackgroundImage(e, force)
		w, h = le.flowChildren(e)
		if e.Kind() == dom.KindWindow {
			w, h = le.ScreenSize()
		}
	}

	if c.ContentWidth != w || c.ContentHeight != h {
		c.ContentWidth, c.ContentHeight = w, h
		c.Invalidate(dom.FieldDimensions)
	}
}

func displayOf(e *dom.Element) string {
	return strings.ToLower(strings.TrimSpace(e.Style().Get(css.PropDisplay)))
}

// isBlockLevel reports whether an element starts its own line in the flow.
func isBlockLevel(e *dom.Element) bool {
	switch displayOf(e) {
	case "block", "flex":
		return true
	}
	return false
}

// flowChildren places children left to right. A block-level child closes
// the current line, sits alone at the left edge and advances offsetY by its
// height. Inline children accumulate on the current line, which is as tall
// as its tallest child. The returned size is the widest line by the total
// height.
//
// flex and inline-block containers use the same flow.
func (le *LayoutEngine) flowChildren(e *dom.Element) (float64, float64) {
	baseW := le.availableSize(e, horizontal)
	baseH := le.availableSize(e, vertical)

	var offsetX, offsetY, maxWidth, lineHeight float64
	lineItems := 0
	endLine := func() {
		if lineItems == 0 {
			return
		}
		offsetY += lineHeight
		offsetX, lineHeight, lineItems = 0, 0, 0
	}

	for _, child := range e.Children() {
		if child.Cache().Hidden {
			continue
		}
		w, h := le.boxSize(child, baseW, baseH)
		if isBlockLevel(child) {
			endLine()
			setFlow(child, 0, offsetY)
			offsetY += h
			maxWidth = max(maxWidth, w)
			continue
		}
		setFlow(child, offsetX, offsetY)
		offsetX += w
		lineItems++
		lineHeight = max(lineHeight, h)
		maxWidth = max(maxWidth, offsetX)
	}
	endLine()
	return maxWidth, offsetY
}

func setFlow(e *dom.Element, x, y float64) {
	c := e.Cache()
	if c.FlowX != x || c.FlowY != y {
		c.FlowX, c.FlowY = x, y
		c.Invalidate(dom.FieldDimensions)
	}
}

// measureText wraps a raw text element to its available width and returns
// the size of the wrapped lines.
func (le *LayoutEngine) measureText(e *dom.Element, force bool) (float64, float64) {
	le.ensureFont(e, force)
	c := e.Cache()
	width := le.availableSize(e, horizontal)
	if force || c.IsDirty(dom.FieldText) || c.WrapWidth != width {
		c.Lines = WrapText(c.Font, e.Text(), width)
		c.WrapWidth = width
		c.Clean(dom.FieldText)
	}
	return TextSize(c.Font, c.Lines)
}

// ensureFont resolves the element's font if it is dirty. Both passes call
// it so whichever runs first loads the font.
func (le *LayoutEngine) ensureFont(e *dom.Element, force bool) {
	c := e.Cache()
	if !force && !c.IsDirty(dom.FieldFont) {
		return
	}
	c.Font = le.font(e.Style().Get(css.PropFont))
	c.LineHeight = 0
	if c.Font != nil {
		c.LineHeight = c.Font.LineHeight()
	}
	c.Clean(dom.FieldFont)
}

// ensureBackgroundImage loads the element's texture if it is dirty.
func (le *LayoutEngine) ensureBackgroundImage(e *dom.Element, force bool) {
	c := e.Cache()
	if !force && !c.IsDirty(dom.FieldBackgroundImage) {
		return
	}
	c.BackgroundImage = le.texture(imageSource(e))
	c.Clean(dom.FieldBackgroundImage)
}
