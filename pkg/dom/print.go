package dom

import (
	"fmt"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Label renders a short description of the element: tag, id, classes and,
// for text, a preview of the content.
func (e *Element) Label() string {
	var sb strings.Builder
	sb.WriteString("[" + e.tag + "]")
	if e.id != "" {
		sb.WriteString(" #" + e.id)
	}
	for _, c := range e.classes {
		sb.WriteString(" ." + c)
	}
	if e.kind == KindRawText {
		text := strings.Join(strings.Fields(e.text), " ")
		if len(text) > 32 {
			text = text[:29] + "..."
		}
		sb.WriteString(fmt.Sprintf(" %q", text))
	}
	return sb.String()
}

// PrintTree renders the subtree as an indented tree. With geometry set,
// every line also shows the element's outer box.
func (e *Element) PrintTree(geometry bool) string {
	root := tp.New()
	root.SetValue(e.describe(geometry))
	for _, c := range e.Children() {
		c.printInto(root, geometry)
	}
	return root.String()
}

func (e *Element) printInto(p tp.Tree, geometry bool) {
	if !e.HasChildren() {
		p.AddNode(e.describe(geometry))
		return
	}
	branch := p.AddBranch(e.describe(geometry))
	for _, c := range e.Children() {
		c.printInto(branch, geometry)
	}
}

func (e *Element) describe(geometry bool) string {
	if !geometry {
		return e.Label()
	}
	o := e.cache.Outer
	s := fmt.Sprintf("%s (%g,%g %gx%g)", e.Label(), o.X1, o.Y1, e.cache.Width, e.cache.Height)
	if e.cache.Hidden {
		s += " hidden"
	}
	return s
}
