package dom

import "boxkit/pkg/css"

// matchNode adapts an Element to css.Matchable. Raw text nodes are skipped
// when looking for siblings, as they are in the DOM's element traversal.
type matchNode struct {
	e *Element
}

func (m matchNode) TagName() string           { return m.e.tag }
func (m matchNode) ElementID() string         { return m.e.id }
func (m matchNode) HasClass(name string) bool { return m.e.HasClass(name) }
func (m matchNode) Hovered() bool             { return m.e.hovered }

func (m matchNode) ParentMatchable() css.Matchable {
	p := m.e.Parent()
	if p == nil {
		return nil
	}
	return matchNode{p}
}

func (m matchNode) PrevSiblingMatchable() css.Matchable {
	return m.sibling(-1)
}

func (m matchNode) NextSiblingMatchable() css.Matchable {
	return m.sibling(1)
}

func (m matchNode) sibling(step int) css.Matchable {
	p := m.e.Parent()
	if p == nil {
		return nil
	}
	i := p.indexOf(m.e)
	for j := i + step; j >= 0 && j < len(p.children); j += step {
		s := p.tree.nodes[p.children[j]]
		if s.kind != KindRawText {
			return matchNode{s}
		}
	}
	return nil
}

// Matches reports whether the element matches selector.
func (e *Element) Matches(selector *css.Selector) bool {
	return selector.Matches(matchNode{e})
}

// QuerySelectorAll returns the descendants of e matching selector, in
// document order.
func (e *Element) QuerySelectorAll(selector *css.Selector) []*Element {
	var out []*Element
	for _, c := range e.Children() {
		c.Walk(func(n *Element) bool {
			if n.Matches(selector) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}
