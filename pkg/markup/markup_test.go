package markup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <title> Hello   page </title>
  <style>div { width: 10px } a* { color: red }</style>
  <link rel="stylesheet" href="data:text/css,span%20%7B%20color%3A%20blue%20%7D">
  <script>console.log("hi")</script>
</head>
<body>
  <div id="main" class="box big" style="height: 5px">Some
     text <span>inner</span></div>
  <img src="a.png" width="4">
  <script>  </script>
</body>
</html>`

func TestParse_Page(t *testing.T) {
	tree := dom.NewTree(nil)
	doc, err := ParseString(page, tree)
	require.Error(t, err, "the malformed rule is reported")
	assert.True(t, errors.Is(err, css.ErrSelectorSyntax))
	require.NotNil(t, doc)

	assert.Equal(t, "Hello page", doc.Title)
	assert.Equal(t, []string{`console.log("hi")`}, doc.Scripts)

	require.Len(t, doc.Stylesheet.Rules, 2)
	assert.Equal(t, "div", doc.Stylesheet.Rules[0].Selector.Raw)
	assert.Equal(t, "span", doc.Stylesheet.Rules[1].Selector.Raw)
	assert.Equal(t, 1, doc.Stylesheet.Rules[1].Order)

	assert.Equal(t, dom.KindHTML, doc.Root.Kind())
	require.Len(t, doc.Root.Children(), 1, "head is not built")
	require.NotNil(t, doc.Body)
	assert.Same(t, doc.Body, doc.Root.Children()[0])

	box := doc.Root.GetElementByID("main")
	require.NotNil(t, box)
	assert.Equal(t, []string{"box", "big"}, box.Classes())
	assert.Equal(t, "height: 5px", box.InlineStyle())

	kids := box.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, dom.KindRawText, kids[0].Kind())
	assert.Equal(t, "Some text", kids[0].Text())
	assert.Equal(t, "span", kids[1].Tag())

	bodyKids := doc.Body.Children()
	require.Len(t, bodyKids, 2, "whitespace and empty scripts are dropped")
	img := bodyKids[1]
	assert.Equal(t, dom.KindImg, img.Kind())
	w, ok := img.Attr("width")
	assert.True(t, ok)
	assert.Equal(t, "4", w)
}

func TestParse_StylesheetApplies(t *testing.T) {
	tree := dom.NewTree(nil)
	doc, err := ParseString(`<style>#x { width: 7px }</style><div id="x"></div>`, tree)
	require.NoError(t, err)
	tree.SetStylesheet(doc.Stylesheet)

	x := doc.Root.GetElementByID("x")
	require.NotNil(t, x)
	assert.Equal(t, "7px", x.Style().Get(css.PropWidth))
}

func TestParse_Fragment(t *testing.T) {
	tree := dom.NewTree(nil)
	doc, err := ParseString("plain text", tree)
	require.NoError(t, err)
	require.NotNil(t, doc.Body)
	require.Len(t, doc.Body.Children(), 1)
	assert.Equal(t, "plain text", doc.Body.Children()[0].Text())
	assert.Empty(t, doc.Stylesheet.Rules)
}

func TestLinkStylesheet(t *testing.T) {
	assert.Equal(t, "a { }", linkStylesheet("data:text/css,a%20{%20}"))
	assert.Equal(t, "", linkStylesheet("styles.css"))
}
