// Package render drives the per-frame pipeline over an element tree:
// sweep pending removals, precalculate, calculate, update hooks, prerender
// and render.
package render

import (
	"go.uber.org/zap"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/layout"
)

// Options control drawing.
type Options struct {
	// Debug draws the outer and inner box outlines of every element.
	Debug bool
	// ClearColor fills the viewport before anything else is drawn.
	// Transparent skips the clear.
	ClearColor css.RGBA
}

// Pipeline renders one root element, usually a window.
type Pipeline struct {
	root   *dom.Element
	engine *layout.LayoutEngine
	opts   Options
	logger *zap.Logger

	frame      uint64
	force      bool
	lastWidth  float64
	lastHeight float64
}

func NewPipeline(root *dom.Element, engine *layout.LayoutEngine, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		root:   root,
		engine: engine,
		opts:   opts,
		logger: logger.Named("render"),
	}
}

// Root returns the element the pipeline renders.
func (p *Pipeline) Root() *dom.Element { return p.root }

// Frames returns the number of completed frames.
func (p *Pipeline) Frames() uint64 { return p.frame }

// SetDebug toggles the debug overlay.
func (p *Pipeline) SetDebug(debug bool) { p.opts.Debug = debug }

// Invalidate forces the next frame to recompute every cached value.
func (p *Pipeline) Invalidate() { p.force = true }

// Frame runs one complete frame.
func (p *Pipeline) Frame() {
	Frame(p)
}

// Frame runs one frame over several independent pipelines. Every pipeline
// is updated before any is prerendered, and every pipeline is prerendered
// before any is rendered.
func Frame(pipelines ...*Pipeline) {
	for _, p := range pipelines {
		p.Update()
	}
	for _, p := range pipelines {
		p.Prerender()
	}
	for _, p := range pipelines {
		p.Render()
		p.frame++
	}
}

// Update sweeps elements pending removal, lays the tree out and runs the
// OnUpdate hooks. This is the only step in which hooks may restructure the
// tree; the changes are laid out on the next frame.
func (p *Pipeline) Update() {
	if removed := p.root.Sweep(); removed > 0 {
		p.logger.Debug("Swept removed elements", zap.Int("count", removed))
	}

	w, h := p.engine.ScreenSize()
	if w != p.lastWidth || h != p.lastHeight {
		p.lastWidth, p.lastHeight = w, h
		p.force = true
	}
	force := p.force
	p.force = false

	p.engine.Precalculate(p.root, force)
	p.engine.Calculate(p.root, force)

	p.root.Walk(func(e *dom.Element) bool {
		if e.OnUpdate != nil {
			e.OnUpdate(e)
		}
		return true
	})
}

// Prerender runs the OnPrerender hooks top-down and clears each element's
// dirty flag.
func (p *Pipeline) Prerender() {
	p.root.Walk(func(e *dom.Element) bool {
		if e.OnPrerender != nil {
			e.OnPrerender(e)
		}
		e.ClearDirty()
		return true
	})
}

// Render draws the tree through the host backend. Without a backend it
// does nothing.
func (p *Pipeline) Render() {
	b := p.engine.Host().Backend
	if b == nil {
		return
	}
	if !p.opts.ClearColor.IsTransparent() {
		w, h := p.engine.ScreenSize()
		b.FillRect(0, 0, w, h, p.opts.ClearColor)
	}
	(&painter{backend: b, debug: p.opts.Debug}).paint(p.root)
}
