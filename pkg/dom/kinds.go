package dom

import (
	"strings"

	"boxkit/pkg/css"
)

// Kind discriminates element behaviour.
type Kind int

const (
	KindGeneric Kind = iota
	KindWindow
	KindHTML
	KindBody
	KindDiv
	KindSpan
	KindImg
	KindRawText
)

// Tags of the built-in kinds.
const (
	TagWindow  = "window"
	TagHTML    = "html"
	TagBody    = "body"
	TagDiv     = "div"
	TagSpan    = "span"
	TagImg     = "img"
	TagRawText = "#text"
)

var kindByTag = map[string]Kind{
	TagWindow:  KindWindow,
	TagHTML:    KindHTML,
	TagBody:    KindBody,
	TagDiv:     KindDiv,
	TagSpan:    KindSpan,
	TagImg:     KindImg,
	TagRawText: KindRawText,
}

func (k Kind) String() string {
	for tag, kind := range kindByTag {
		if kind == k {
			return tag
		}
	}
	return "element"
}

// KindOf maps a tag name to its kind. Unknown tags are generic.
func KindOf(tag string) Kind {
	if k, ok := kindByTag[strings.ToLower(tag)]; ok {
		return k
	}
	return KindGeneric
}

const defaultElementCSS = "background-color: transparent; color: inherit; display: inline"

// defaultCSS is the per-kind default declaration block, applied below any
// stylesheet or inline declaration.
var defaultCSS = map[Kind]string{
	KindGeneric: defaultElementCSS,
	KindWindow:  "display: block; background-color: white; color: black; --debug-color-outer: purple; --debug-color-inner: purple",
	KindHTML:    "display: block; width: 100%; height: 100%",
	KindBody:    "display: block; margin: 8px; width: 100%; height: 100%; --debug-color-outer: blue; --debug-color-inner: blue",
	KindDiv:     defaultElementCSS + "; display: block",
	KindSpan:    defaultElementCSS,
	KindImg:     defaultElementCSS + "; background-color: white",
	KindRawText: defaultElementCSS,
}

var defaultBlocks = func() map[Kind]css.Block {
	m := make(map[Kind]css.Block, len(defaultCSS))
	for k, text := range defaultCSS {
		m[k] = css.ParseDeclarations(text)
	}
	return m
}()

// DefaultBlock returns the default declarations for kind.
func DefaultBlock(kind Kind) css.Block {
	return defaultBlocks[kind]
}
