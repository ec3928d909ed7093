package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/host"
	"boxkit/pkg/layout"
)

type op struct {
	kind       string
	x, y, w, h float64
	color      css.RGBA
	text       string
	mode       host.RepeatMode
}

type recorder struct {
	ops []op
}

func (r *recorder) FillRect(x, y, w, h float64, c css.RGBA) {
	r.ops = append(r.ops, op{kind: "fill", x: x, y: y, w: w, h: h, color: c})
}

func (r *recorder) DrawTexture(_ host.Texture, x, y, w, h float64, mode host.RepeatMode, tint css.RGBA) {
	r.ops = append(r.ops, op{kind: "texture", x: x, y: y, w: w, h: h, color: tint, mode: mode})
}

func (r *recorder) DrawLine(x1, y1, x2, y2, _ float64, c css.RGBA) {
	r.ops = append(r.ops, op{kind: "line", x: x1, y: y1, w: x2 - x1, h: y2 - y1, color: c})
}

func (r *recorder) kinds() []string {
	var out []string
	for _, o := range r.ops {
		out = append(out, o.kind)
	}
	return out
}

// recFont is 10px per byte, 20px per line, and records what it draws.
type recFont struct{ rec *recorder }

func (f recFont) MeasureLine(s string) (float64, float64) { return float64(len(s)) * 10, 20 }
func (f recFont) LineHeight() float64                      { return 20 }
func (f recFont) DrawLine(s string, x, y float64, tint css.RGBA) {
	f.rec.ops = append(f.rec.ops, op{kind: "text", x: x, y: y, text: s, color: tint})
}

type fonts struct{ f host.Font }

func (p fonts) Font(string) (host.Font, error) { return p.f, nil }

type tex struct{}

func (tex) Size() (float64, float64) { return 4, 4 }

type textures struct{}

func (textures) Texture(ref string) (host.Texture, error) {
	if ref == "t.png" {
		return tex{}, nil
	}
	return nil, host.ErrMissingResource
}

func setup(t *testing.T, opts Options) (*dom.Tree, *dom.Element, *recorder, *Pipeline) {
	t.Helper()
	rec := &recorder{}
	h := host.Host{
		Viewport: host.StaticViewport{Width: 800, Height: 600},
		Fonts:    fonts{recFont{rec}},
		Textures: textures{},
		Backend:  rec,
	}
	tree := dom.NewTree(nil)
	win := tree.CreateElement("window")
	return tree, win, rec, NewPipeline(win, layout.NewLayoutEngine(h, nil), opts, nil)
}

func TestRender_BackgroundAndText(t *testing.T) {
	tree, win, rec, p := setup(t, Options{})
	box := tree.CreateElement("div")
	box.SetStyle("width: 50px; height: 50px; background-color: red")
	require.NoError(t, win.AppendChild(box))
	require.NoError(t, box.AppendChild(tree.CreateText("hi there")))

	p.Frame()

	require.Len(t, rec.ops, 4)
	assert.Equal(t, op{kind: "fill", w: 800, h: 600, color: css.White}, rec.ops[0])
	assert.Equal(t, op{kind: "fill", w: 50, h: 50, color: css.RGBA{R: 1, A: 1}}, rec.ops[1])
	assert.Equal(t, op{kind: "text", text: "hi", color: css.Black}, rec.ops[2])
	assert.Equal(t, op{kind: "text", y: 20, text: "there", color: css.Black}, rec.ops[3])
	assert.Equal(t, uint64(1), p.Frames())
}

func TestRender_TextureAndTransparency(t *testing.T) {
	tree, win, rec, p := setup(t, Options{})
	win.SetStyle("background-color: transparent")
	tiled := tree.CreateElement("div")
	tiled.SetStyle("width: 10px; height: 10px; background: yellow url(t.png) repeat-x")
	plain := tree.CreateElement("div")
	plain.SetStyle("width: 10px; height: 10px; background-image: url(t.png)")
	require.NoError(t, win.AppendChild(tiled))
	require.NoError(t, win.AppendChild(plain))

	p.Frame()

	assert.Equal(t, []string{"fill", "texture"}, rec.kinds(), "a transparent background draws nothing")
	assert.Equal(t, host.RepeatX, rec.ops[1].mode)
	assert.Equal(t, css.White, rec.ops[1].color)
}

func TestRender_HiddenAndEmptyBoxes(t *testing.T) {
	tree, win, rec, p := setup(t, Options{})
	win.SetStyle("background-color: transparent")
	hidden := tree.CreateElement("div")
	hidden.SetStyle("display: none; width: 10px; height: 10px; background-color: red")
	empty := tree.CreateElement("div")
	empty.SetStyle("background-color: red")
	inner := tree.CreateElement("div")
	inner.SetStyle("width: 5px; height: 5px; background-color: blue; left: 0px; top: 0px")
	require.NoError(t, win.AppendChild(hidden))
	require.NoError(t, win.AppendChild(empty))
	require.NoError(t, empty.AppendChild(inner))
	empty.SetStyle("background-color: red; height: 0px")

	p.Frame()

	require.Len(t, rec.ops, 1, "zero-area boxes still render their children")
	assert.Equal(t, css.RGBA{B: 1, A: 1}, rec.ops[0].color)
}

func TestRender_DebugOverlay(t *testing.T) {
	_, _, rec, p := setup(t, Options{Debug: true})
	p.Frame()

	assert.Equal(t, []string{"fill", "line", "line", "line", "line", "line", "line", "line", "line"}, rec.kinds())
	assert.Equal(t, op{kind: "line", w: 800, color: rec.ops[1].color}, rec.ops[1])
	assert.False(t, rec.ops[1].color.IsTransparent())
}

func TestRender_ClearColor(t *testing.T) {
	_, win, rec, p := setup(t, Options{ClearColor: css.Black})
	win.SetStyle("background-color: transparent")
	p.Frame()
	assert.Equal(t, []op{{kind: "fill", w: 800, h: 600, color: css.Black}}, rec.ops)
}

func TestFrame_HookOrder(t *testing.T) {
	tree, win, _, p := setup(t, Options{})
	child := tree.CreateElement("div")
	require.NoError(t, win.AppendChild(child))

	var calls []string
	for _, e := range []*dom.Element{win, child} {
		tag := e.Tag()
		e.OnUpdate = func(*dom.Element) { calls = append(calls, "update "+tag) }
		e.OnPrerender = func(el *dom.Element) {
			assert.True(t, el.IsDirty() || el.Tag() == "window")
			calls = append(calls, "prerender "+tag)
		}
		e.OnRender = func(*dom.Element) { calls = append(calls, "render "+tag) }
	}
	child.SetDirty()

	p.Frame()

	assert.Equal(t, []string{
		"update window", "update div",
		"prerender window", "prerender div",
		"render window", "render div",
	}, calls)
	assert.False(t, child.IsDirty(), "prerender clears the dirty flag")
}

func TestFrame_MultiplePipelines(t *testing.T) {
	_, a, _, pa := setup(t, Options{})
	_, b, _, pb := setup(t, Options{})

	var calls []string
	hook := func(step, name string) dom.Hook {
		return func(*dom.Element) { calls = append(calls, step+" "+name) }
	}
	a.OnUpdate, a.OnPrerender, a.OnRender = hook("update", "a"), hook("prerender", "a"), hook("render", "a")
	b.OnUpdate, b.OnPrerender, b.OnRender = hook("update", "b"), hook("prerender", "b"), hook("render", "b")

	Frame(pa, pb)

	assert.Equal(t, []string{
		"update a", "update b",
		"prerender a", "prerender b",
		"render a", "render b",
	}, calls)
}

func TestFrame_RemovalAndMutationFromHooks(t *testing.T) {
	tree, win, _, p := setup(t, Options{})
	doomed := tree.CreateElement("div")
	doomed.SetStyle("height: 30px")
	require.NoError(t, win.AppendChild(doomed))

	var added *dom.Element
	win.OnUpdate = func(w *dom.Element) {
		if added == nil {
			added = tree.CreateElement("div")
			added.SetStyle("width: 7px; height: 7px")
			require.NoError(t, w.AppendChild(added))
		}
	}
	p.Frame()
	assert.Equal(t, 0.0, added.Cache().Width, "laid out on the next frame")

	doomed.Remove()
	p.Frame()
	assert.False(t, doomed.HasParent())
	assert.Equal(t, 7.0, added.Cache().Width)
	assert.Equal(t, dom.Rect{X2: 7, Y2: 7}, added.Cache().Outer, "flow moves it up once the sibling is gone")
}
