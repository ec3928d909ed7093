package render

import (
	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/host"
)

type painter struct {
	backend host.Backend
	debug   bool
}

// paint draws e and its subtree in painter's order: background, text, the
// OnRender hook, children, then the debug outline. Hidden subtrees are
// skipped. Elements without area draw no background or text but still
// render their children.
func (p *painter) paint(e *dom.Element) {
	c := e.Cache()
	if c.Hidden {
		return
	}

	if c.Width > 0 && c.Height > 0 {
		p.background(c)
		p.text(c)
	}
	if e.OnRender != nil {
		e.OnRender(e)
	}
	for _, child := range e.Children() {
		p.paint(child)
	}
	if p.debug {
		p.outline(c.Outer, c.DebugOuter)
		p.outline(c.Inner, c.DebugInner)
	}
}

// background fills the outer box and draws the texture over it. A fully
// transparent background color draws neither.
func (p *painter) background(c *dom.Cache) {
	if c.BackgroundColor.IsTransparent() {
		return
	}
	o := c.Outer
	p.backend.FillRect(o.X1, o.Y1, o.Width(), o.Height(), c.BackgroundColor)
	if c.BackgroundImage != nil {
		p.backend.DrawTexture(c.BackgroundImage, o.X1, o.Y1, o.Width(), o.Height(), c.BackgroundRepeat, css.White)
	}
}

func (p *painter) text(c *dom.Cache) {
	if c.Font == nil || len(c.Lines) == 0 {
		return
	}
	x, y := c.Inner.X1, c.Inner.Y1
	for _, line := range c.Lines {
		c.Font.DrawLine(line, x, y, c.Color)
		y += c.LineHeight
	}
}

func (p *painter) outline(r dom.Rect, color css.RGBA) {
	if color.IsTransparent() {
		return
	}
	b := p.backend
	b.DrawLine(r.X1, r.Y1, r.X2, r.Y1, 1, color)
	b.DrawLine(r.X1, r.Y2, r.X2, r.Y2, 1, color)
	b.DrawLine(r.X1, r.Y1, r.X1, r.Y2, 1, color)
	b.DrawLine(r.X2, r.Y1, r.X2, r.Y2, 1, color)
}
