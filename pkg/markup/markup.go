// Package markup builds element trees from HTML text. <style> blocks and
// <link rel="stylesheet"> data URIs become the document stylesheet,
// <script> bodies are collected for the script runtime and everything in
// <body> becomes elements.
package markup

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"boxkit/pkg/css"
	"boxkit/pkg/dom"
)

// Document is the result of building a page.
type Document struct {
	// Root is the <html> element, owning <body> and its content.
	Root *dom.Element
	// Body is the <body> element.
	Body *dom.Element

	Title      string
	Stylesheet *css.Stylesheet
	Scripts    []string
}

// ParseString is Parse over a string.
func ParseString(text string, tree *dom.Tree) (*Document, error) {
	return Parse(strings.NewReader(text), tree)
}

// Parse reads HTML and builds its elements in tree. Stylesheet problems do
// not stop the build: the returned document carries every rule that parsed
// and the error lists the rest.
func Parse(r io.Reader, tree *dom.Tree) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := &builder{tree: tree, doc: &Document{}}
	var cssText []string
	b.collect = func(s string) { cssText = append(cssText, s) }

	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "html" {
			b.doc.Root = b.element(n)
		}
	}
	if b.doc.Root == nil {
		return nil, errors.New("parse html: no <html> element")
	}

	b.doc.Stylesheet = css.NewStylesheet()
	var errs []error
	for _, text := range cssText {
		sheet, err := css.ParseStylesheet(text)
		if err != nil {
			errs = append(errs, err)
		}
		if sheet != nil {
			b.doc.Stylesheet.Append(sheet)
		}
	}
	return b.doc, errors.Join(errs...)
}

type builder struct {
	tree    *dom.Tree
	doc     *Document
	collect func(string)
}

// element converts n and its subtree. Head content is harvested rather than
// built.
func (b *builder) element(n *html.Node) *dom.Element {
	e := b.tree.CreateElement(n.Data)
	for _, a := range n.Attr {
		e.SetAttr(a.Key, a.Val)
	}
	if n.Data == "body" {
		b.doc.Body = e
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if text := collapseSpace(c.Data); text != "" {
				// Errors are impossible: the child is new and belongs to the tree.
				_ = e.AppendChild(b.tree.CreateText(text))
			}
		case html.ElementNode:
			if b.harvest(c) {
				continue
			}
			_ = e.AppendChild(b.element(c))
		}
	}
	return e
}

// harvest consumes elements that do not render. It reports whether n was
// consumed.
func (b *builder) harvest(n *html.Node) bool {
	switch n.Data {
	case "head":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				b.harvest(c)
			}
		}
		return true
	case "style":
		b.collect(textContent(n))
		return true
	case "script":
		if src := strings.TrimSpace(textContent(n)); src != "" {
			b.doc.Scripts = append(b.doc.Scripts, src)
		}
		return true
	case "title":
		b.doc.Title = collapseSpace(textContent(n))
		return true
	case "link":
		if strings.Contains(attr(n, "rel"), "stylesheet") {
			if text := linkStylesheet(attr(n, "href")); text != "" {
				b.collect(text)
			}
		}
		return true
	case "meta", "base":
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// linkStylesheet decodes a data:text/css href. Other hrefs are not fetched.
func linkStylesheet(href string) string {
	href = strings.TrimSpace(href)
	const prefix = "data:text/css,"
	if !strings.HasPrefix(href, prefix) {
		return ""
	}
	encoded := href[len(prefix):]
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return encoded
	}
	return decoded
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
