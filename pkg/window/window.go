// Package window is the host-facing root of an element tree. A Window owns
// the window > html > body skeleton, the layout engine and render pipeline
// for it, a font pool and the mouse sampler.
package window

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/host"
	"boxkit/pkg/layout"
	"boxkit/pkg/markup"
	"boxkit/pkg/render"
)

// Options configure a Window.
type Options struct {
	Host host.Host
	// Cascade defaults to one over css.DefaultRegistry.
	Cascade *css.Cascade
	Render  render.Options
	Logger  *zap.Logger
}

type Window struct {
	ID uuid.UUID

	tree     *dom.Tree
	root     *dom.Element
	document *dom.Element
	body     *dom.Element

	fonts    *FontPool
	mouse    *Mouse
	engine   *layout.LayoutEngine
	pipeline *render.Pipeline
	logger   *zap.Logger
}

func New(opts Options) *Window {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	logger = logger.With(zap.String("window", id.String()))

	w := &Window{
		ID:     id,
		tree:   dom.NewTree(opts.Cascade),
		fonts:  NewFontPool(opts.Host.Fonts),
		mouse:  &Mouse{},
		logger: logger,
	}

	h := opts.Host
	h.Fonts = w.fonts
	w.engine = layout.NewLayoutEngine(h, logger)

	w.root = w.tree.CreateElement(dom.TagWindow)
	w.document = w.tree.CreateElement(dom.TagHTML)
	w.body = w.tree.CreateElement(dom.TagBody)
	w.mustAppend(w.root, w.document)
	w.mustAppend(w.document, w.body)

	w.pipeline = render.NewPipeline(w.root, w.engine, opts.Render, logger)
	logger.Debug("Window created")
	return w
}

// mustAppend attaches freshly created elements, which cannot fail.
func (w *Window) mustAppend(parent, child *dom.Element) {
	if err := parent.AppendChild(child); err != nil {
		panic(err)
	}
}

func (w *Window) Tree() *dom.Tree { return w.tree }
func (w *Window) Element() *dom.Element { return w.root }
func (w *Window) Document() *dom.Element { return w.document }
func (w *Window) Body() *dom.Element { return w.body }
func (w *Window) Fonts() *FontPool { return w.fonts }
func (w *Window) Mouse() *Mouse { return w.mouse }
func (w *Window) Engine() *layout.LayoutEngine { return w.engine }
func (w *Window) Pipeline() *render.Pipeline { return w.pipeline }
func (w *Window) Logger() *zap.Logger { return w.logger }
func (w *Window) CreateElement(tag string) *dom.Element { return w.tree.CreateElement(tag) }

// GetElementByID searches the whole window.
func (w *Window) GetElementByID(id string) *dom.Element {
	return w.root.GetElementByID(id)
}

// LoadHTML replaces the document with one built from HTML. The document
// stylesheet replaces the tree's stylesheet. A stylesheet error leaves the
// rules that parsed in place and is returned alongside the document.
func (w *Window) LoadHTML(r io.Reader) (*markup.Document, error) {
	doc, err := markup.Parse(r, w.tree)
	if doc == nil {
		return nil, err
	}
	if rmErr := w.root.RemoveChild(w.document); rmErr != nil {
		return nil, rmErr
	}
	w.document, w.body = doc.Root, doc.Body
	w.mustAppend(w.root, w.document)
	w.tree.SetStylesheet(doc.Stylesheet)

	w.logger.Info("Loaded document",
		zap.String("title", doc.Title),
		zap.Int("rules", len(doc.Stylesheet.Rules)),
		zap.Int("scripts", len(doc.Scripts)),
		zap.Int("elements", w.tree.Len()))
	if err != nil {
		w.logger.Warn("Stylesheet partially applied", zap.Error(err))
	}
	return doc, err
}

// LoadHTMLString is LoadHTML over a string.
func (w *Window) LoadHTMLString(text string) (*markup.Document, error) {
	return w.LoadHTML(strings.NewReader(text))
}

// Input queues a pointer sample for the next frame.
func (w *Window) Input(s Sample) {
	w.mouse.Feed(s)
}

// Frame processes pending input and renders one frame.
func (w *Window) Frame() {
	Frame(w)
}

// Frame runs one frame over several windows: input for all, then the
// render pipeline phases across all.
func Frame(windows ...*Window) {
	pipelines := make([]*render.Pipeline, 0, len(windows))
	for _, w := range windows {
		w.mouse.update(w.document)
		pipelines = append(pipelines, w.pipeline)
	}
	render.Frame(pipelines...)
}
