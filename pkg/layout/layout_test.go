package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
	"boxkit/pkg/host"
)

// monoFont is 10px per byte and 20px per line.
type monoFont struct{}

func (monoFont) MeasureLine(text string) (float64, float64) { return float64(len(text)) * 10, 20 }
func (monoFont) LineHeight() float64                         { return 20 }
func (monoFont) DrawLine(string, float64, float64, css.RGBA)  {}

type fontSet map[string]host.Font

func (s fontSet) Font(family string) (host.Font, error) {
	if f, ok := s[family]; ok {
		return f, nil
	}
	return nil, host.ErrMissingResource
}

type texture struct{ w, h float64 }

func (t texture) Size() (float64, float64) { return t.w, t.h }

type textureSet map[string]host.Texture

func (s textureSet) Texture(ref string) (host.Texture, error) {
	if t, ok := s[ref]; ok {
		return t, nil
	}
	return nil, host.ErrMissingResource
}

func newEngine(logger *zap.Logger) *LayoutEngine {
	return NewLayoutEngine(host.Host{
		Viewport: host.StaticViewport{Width: 800, Height: 600},
		Fonts:    fontSet{DefaultFont: monoFont{}},
		Textures: textureSet{"cat.png": texture{64, 32}},
	}, logger)
}

func element(t *testing.T, tree *dom.Tree, parent *dom.Element, tag, style string) *dom.Element {
	t.Helper()
	e := tree.CreateElement(tag)
	e.SetStyle(style)
	if parent != nil {
		require.NoError(t, parent.AppendChild(e))
	}
	return e
}

func TestPercentageWidth(t *testing.T) {
	tree := dom.NewTree(nil)
	parent := element(t, tree, nil, "div", "width: 200px; height: 50px")
	child := element(t, tree, parent, "div", "width: 50%; height: 50%")

	le := newEngine(nil)
	le.Layout(parent, false)

	assert.Equal(t, 100.0, child.Cache().Width)
	assert.Equal(t, 25.0, child.Cache().Height)

	orphan := element(t, tree, nil, "div", "width: 50%; height: 10%")
	le.Layout(orphan, false)
	assert.Equal(t, 400.0, orphan.Cache().Width, "no parent resolves against the viewport")
	assert.Equal(t, 60.0, orphan.Cache().Height)
}

func TestUnresolvedLengthFallsBack(t *testing.T) {
	tree := dom.NewTree(nil)
	e := element(t, tree, nil, "div", "width: 3em; height: auto")

	le := newEngine(nil)
	assert.NotPanics(t, func() { le.Layout(e, false) })
	assert.Equal(t, 0.0, e.Cache().Width)
	assert.Equal(t, 0.0, e.Cache().Height)

	odd := element(t, tree, nil, "div", "width: nan; height: -inf")
	le.Layout(odd, false)
	before := odd.Cache().Geometry()
	assert.Equal(t, 0.0, odd.Cache().Width)
	assert.Equal(t, 0.0, odd.Cache().Height)
	le.Layout(odd, false)
	assert.Equal(t, before, odd.Cache().Geometry())
}

func TestFlow(t *testing.T) {
	tree := dom.NewTree(nil)
	parent := element(t, tree, nil, "div", "left: 5px; top: 7px")
	a := element(t, tree, parent, "span", "width: 30px; height: 10px")
	b := element(t, tree, parent, "span", "width: 40px; height: 20px")
	block := element(t, tree, parent, "div", "width: 100px; height: 5px")
	c := element(t, tree, parent, "span", "width: 10px; height: 10px")

	newEngine(nil).Layout(parent, false)

	flow := func(e *dom.Element) [2]float64 { return [2]float64{e.Cache().FlowX, e.Cache().FlowY} }
	assert.Equal(t, [2]float64{0, 0}, flow(a))
	assert.Equal(t, [2]float64{30, 0}, flow(b))
	assert.Equal(t, [2]float64{0, 20}, flow(block), "a block child starts a new line")
	assert.Equal(t, [2]float64{0, 25}, flow(c))

	pc := parent.Cache()
	assert.Equal(t, 100.0, pc.ContentWidth)
	assert.Equal(t, 35.0, pc.ContentHeight, "the trailing inline line adds its height")
	assert.Equal(t, dom.Rect{X1: 5, Y1: 7, X2: 105, Y2: 42}, pc.Outer)

	assert.Equal(t, dom.Rect{X1: 35, Y1: 7, X2: 75, Y2: 27}, b.Cache().Outer)
	assert.Equal(t, dom.Rect{X1: 5, Y1: 32, X2: 15, Y2: 42}, c.Cache().Outer)
	assert.Equal(t, c.Cache().Outer, c.Cache().Inner)
}

func TestDisplayNoneHidesSubtree(t *testing.T) {
	tree := dom.NewTree(nil)
	parent := element(t, tree, nil, "div", "")
	gone := element(t, tree, parent, "div", "display: none; width: 50px; height: 50px")
	inner := element(t, tree, gone, "div", "width: 10px; height: 10px")
	kept := element(t, tree, parent, "div", "width: 20px; height: 20px")

	newEngine(nil).Layout(parent, false)

	assert.True(t, gone.Cache().Hidden)
	assert.True(t, inner.Cache().Hidden)
	assert.Equal(t, 0.0, gone.Cache().Width)
	assert.Equal(t, [2]float64{0, 0}, [2]float64{kept.Cache().FlowX, kept.Cache().FlowY})
	assert.Equal(t, 20.0, parent.Cache().ContentHeight)
}

func TestExplicitOffsets(t *testing.T) {
	tree := dom.NewTree(nil)
	parent := element(t, tree, nil, "div", "left: 100px; top: 100px; width: 200px; height: 200px")
	abs := element(t, tree, parent, "div", "left: 10px; top: 20px; width: 5px; height: 5px")
	right := element(t, tree, parent, "div", "right: 10px; bottom: 10px; width: 20px; height: 20px")

	newEngine(nil).Layout(parent, false)

	assert.Equal(t, dom.Rect{X1: 10, Y1: 20, X2: 15, Y2: 25}, abs.Cache().Outer)
	assert.Equal(t, dom.Rect{X1: 270, Y1: 270, X2: 290, Y2: 290}, right.Cache().Outer)
}

func TestMinMaxClamp(t *testing.T) {
	tree := dom.NewTree(nil)
	e := element(t, tree, nil, "div", "width: 500px; max-width: 300px; height: 5px; min-height: 40px")

	newEngine(nil).Layout(e, false)
	assert.Equal(t, 300.0, e.Cache().Width)
	assert.Equal(t, 40.0, e.Cache().Height)

	e.SetStyle("width: 10px; max-width: 5px; min-width: 8px")
	newEngine(nil).Layout(e, false)
	assert.Equal(t, 8.0, e.Cache().Width, "min wins over max")
}

func TestImageSizePrecedence(t *testing.T) {
	tree := dom.NewTree(nil)
	img := tree.CreateElement("img")
	img.SetAttr("src", "cat.png")

	le := newEngine(nil)
	le.Layout(img, false)
	assert.NotNil(t, img.Cache().BackgroundImage)
	assert.Equal(t, [2]float64{64, 32}, [2]float64{img.Cache().Width, img.Cache().Height})

	img.SetAttr("width", "10")
	le.Layout(img, false)
	assert.Equal(t, [2]float64{10, 32}, [2]float64{img.Cache().Width, img.Cache().Height})

	img.SetStyle("width: 5px; height: 6px")
	le.Layout(img, false)
	assert.Equal(t, [2]float64{5, 6}, [2]float64{img.Cache().Width, img.Cache().Height})
}

func TestBackgroundImageURL(t *testing.T) {
	assert.Equal(t, "cat.png", imageRef("url(cat.png)"))
	assert.Equal(t, "a b.png", imageRef(`url( "a b.png" )`))
	assert.Equal(t, "", imageRef("none"))

	tree := dom.NewTree(nil)
	e := element(t, tree, nil, "div", "background: url('cat.png') no-repeat")
	newEngine(nil).Layout(e, false)
	assert.NotNil(t, e.Cache().BackgroundImage)
	assert.Equal(t, host.RepeatNone, e.Cache().BackgroundRepeat)
	assert.Equal(t, 0.0, e.Cache().Width, "a div is not sized by its background")
}

func TestMissingResourcesLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	le := newEngine(zap.New(core))

	tree := dom.NewTree(nil)
	root := element(t, tree, nil, "div", "background-image: url(nope.png); font: fancy")
	element(t, tree, root, "div", "background-image: url(nope.png)")
	text := tree.CreateText("hi")
	require.NoError(t, root.AppendChild(text))

	le.Layout(root, false)
	le.Layout(root, true)

	assert.Nil(t, root.Cache().BackgroundImage)
	assert.Equal(t, monoFont{}, text.Cache().Font, "unknown families fall back to the default font")
	assert.Equal(t, 2, logs.FilterMessage("Missing resource").Len())
}

func TestTextWrapsToAvailableWidth(t *testing.T) {
	tree := dom.NewTree(nil)
	box := element(t, tree, nil, "div", "width: 60px")
	text := tree.CreateText("aaa bb cccccccccc d")
	require.NoError(t, box.AppendChild(text))

	newEngine(nil).Layout(box, false)

	tc := text.Cache()
	assert.Equal(t, []string{"aaa bb", "cccccccccc", "d"}, tc.Lines)
	assert.Equal(t, 20.0, tc.LineHeight)
	assert.Equal(t, 100.0, tc.Width)
	assert.Equal(t, 60.0, tc.Height)
	assert.Equal(t, 60.0, box.Cache().Width, "explicit width beats content")
	assert.Equal(t, 60.0, box.Cache().Height)

	box.SetStyle("width: 200px")
	newEngine(nil).Layout(box, false)
	assert.Equal(t, []string{"aaa bb cccccccccc d"}, tc.Lines, "a wider box rewraps")
}

func TestWrapText(t *testing.T) {
	f := monoFont{}
	assert.Nil(t, WrapText(f, "   ", 100))
	assert.Nil(t, WrapText(nil, "text", 100))
	assert.Equal(t, []string{"one two", "three"}, WrapText(f, "one two three", 70))
	assert.Equal(t, []string{"enormous", "a"}, WrapText(f, "enormous a", 30), "an over-wide word sits alone")
	assert.Equal(t, []string{"a", "", "b"}, WrapText(f, "a\n\nb", 100))

	w, h := TextSize(f, []string{"ab", "abcd"})
	assert.Equal(t, 40.0, w)
	assert.Equal(t, 40.0, h)
}

func TestWindowFillsViewport(t *testing.T) {
	tree := dom.NewTree(nil)
	win := tree.CreateElement("window")
	html := element(t, tree, win, "html", "")
	body := element(t, tree, html, "body", "")

	newEngine(nil).Layout(win, false)

	assert.Equal(t, dom.Rect{X2: 800, Y2: 600}, win.Cache().Outer)
	assert.Equal(t, 800.0, html.Cache().Width)
	assert.Equal(t, 600.0, body.Cache().Height)
	assert.Equal(t, css.White, win.Cache().BackgroundColor)
}

func TestLayoutDeterminism(t *testing.T) {
	tree := dom.NewTree(nil)
	win := tree.CreateElement("window")
	html := element(t, tree, win, "html", "")
	body := element(t, tree, html, "body", "")
	box := element(t, tree, body, "div", "width: 50%; background-color: red")
	require.NoError(t, box.AppendChild(tree.CreateText("some words that will wrap around a little")))
	element(t, tree, box, "span", "width: 25%; height: 12px")
	img := tree.CreateElement("img")
	img.SetAttr("src", "cat.png")
	require.NoError(t, body.AppendChild(img))

	snapshot := func() []dom.Geometry {
		var out []dom.Geometry
		win.Walk(func(e *dom.Element) bool {
			out = append(out, e.Cache().Geometry())
			return true
		})
		return out
	}

	le := newEngine(nil)
	le.Layout(win, false)
	first := snapshot()
	le.Layout(win, false)
	assert.Equal(t, first, snapshot())
	le.Layout(win, true)
	assert.Equal(t, first, snapshot(), "forcing recomputes the same geometry")
}
