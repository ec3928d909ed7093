package dom

import (
	"strings"

	"boxkit/pkg/css"
	"boxkit/pkg/event"
)

// Hook is a per-element lifecycle callback.
type Hook func(e *Element)

// Element is one node of a Tree.
type Element struct {
	tree   *Tree
	nodeID NodeID
	tag    string
	kind   Kind

	id      string
	classes []string
	attrs   map[string]string
	text    string

	defaults  css.Block
	inline    css.Block
	inlineRaw string

	style      *css.Ruleset
	styleStale bool
	cache      *Cache

	parent   NodeID
	children []NodeID

	dirty         bool
	removePending bool
	hovered       bool

	listeners *event.Registry

	OnUpdate    Hook
	OnPrerender Hook
	OnRender    Hook
}

// Tree returns the owning tree.
func (e *Element) Tree() *Tree { return e.tree }

// NodeID returns the element's arena index.
func (e *Element) NodeID() NodeID { return e.nodeID }

// Tag returns the tag name.
func (e *Element) Tag() string { return e.tag }

// Kind returns the element kind derived from its tag.
func (e *Element) Kind() Kind { return e.kind }

// ID returns the DOM id, or "".
func (e *Element) ID() string { return e.id }

// SetID sets the DOM id.
func (e *Element) SetID(id string) {
	e.id = id
	e.markStateChanged()
}

// Classes returns the class names.
func (e *Element) Classes() []string { return e.classes }

// SetClass replaces the class list with the space separated names.
func (e *Element) SetClass(names string) {
	e.classes = strings.Fields(names)
	e.markStateChanged()
}

// AddClass adds a class name if missing.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.classes = append(e.classes, name)
	e.markStateChanged()
}

// RemoveClass removes a class name.
func (e *Element) RemoveClass(name string) {
	for i, c := range e.classes {
		if c == name {
			e.classes = append(e.classes[:i:i], e.classes[i+1:]...)
			e.markStateChanged()
			return
		}
	}
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	switch name = strings.ToLower(name); name {
	case "id":
		return e.id, e.id != ""
	case "class":
		return strings.Join(e.classes, " "), len(e.classes) > 0
	case "style":
		return e.inlineRaw, e.inlineRaw != ""
	}
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute. id, class and style are routed to SetID,
// SetClass and SetStyle; src, width and height invalidate the geometry
// that depends on them.
func (e *Element) SetAttr(name, value string) {
	switch name = strings.ToLower(name); name {
	case "id":
		e.SetID(value)
		return
	case "class":
		e.SetClass(value)
		return
	case "style":
		e.SetStyle(value)
		return
	}
	e.attrs[name] = value
	switch name {
	case "src":
		e.cache.Invalidate(FieldBackgroundImage | FieldDimensions)
	case "width", "height":
		e.cache.Invalidate(FieldDimensions)
	}
	e.dirty = true
}

// Text returns the text of a raw text element.
func (e *Element) Text() string { return e.text }

// SetText replaces the text of the element.
func (e *Element) SetText(text string) {
	if text == e.text {
		return
	}
	e.text = text
	e.cache.Invalidate(FieldText | FieldDimensions)
	e.dirty = true
}

// Cache returns the geometry cache.
func (e *Element) Cache() *Cache { return e.cache }

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element { return e.tree.Node(e.parent) }

// HasParent reports whether the element is attached to a parent.
func (e *Element) HasParent() bool { return e.parent != NoNode }

// HasChildren reports whether the element has children.
func (e *Element) HasChildren() bool { return len(e.children) != 0 }

// Children returns a snapshot of the children in order.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	for i, id := range e.children {
		out[i] = e.tree.nodes[id]
	}
	return out
}

// ChildIDs returns a copy of the child index list.
func (e *Element) ChildIDs() []NodeID {
	out := make([]NodeID, len(e.children))
	copy(out, e.children)
	return out
}

// IsDirty reports whether the element changed since its last prerender.
func (e *Element) IsDirty() bool { return e.dirty }

// SetDirty flags the element as changed.
func (e *Element) SetDirty() { e.dirty = true }

// ClearDirty lowers the changed flag. The render pipeline calls it during
// prerender.
func (e *Element) ClearDirty() { e.dirty = false }

// Hovered reports whether the pointer is over the element.
func (e *Element) Hovered() bool { return e.hovered }

// SetHovered updates the hover state used by :hover.
func (e *Element) SetHovered(h bool) {
	if e.hovered == h {
		return
	}
	e.hovered = h
	e.markStateChanged()
}

// AppendChild attaches child as the last child of e. A child that already
// has a parent, including e itself, is detached from it first.
func (e *Element) AppendChild(child *Element) error {
	if child == nil {
		return &TreeError{Op: "appendChild", Msg: "nil child"}
	}
	if child.tree != e.tree {
		return &TreeError{Op: "appendChild", Msg: "child belongs to another tree"}
	}
	if child == e {
		return &TreeError{Op: "appendChild", Msg: "element cannot be its own child"}
	}

	if old := child.Parent(); old != nil {
		old.detach(child)
	}
	child.parent = e.nodeID
	child.removePending = false
	e.children = append(e.children, child.nodeID)

	e.markStyleStale()
	e.cache.Invalidate(FieldDimensions)
	return nil
}

// InsertBefore attaches child immediately before ref, which must be a child
// of e. A nil ref appends.
func (e *Element) InsertBefore(child, ref *Element) error {
	if ref == nil {
		return e.AppendChild(child)
	}
	if e.indexOf(ref) < 0 {
		return &TreeError{Op: "insertBefore", Msg: "reference is not a child"}
	}
	if err := e.AppendChild(child); err != nil {
		return err
	}
	// Move the appended id into place.
	last := len(e.children) - 1
	at := e.indexOf(ref)
	copy(e.children[at+1:], e.children[at:last])
	e.children[at] = child.nodeID
	return nil
}

// RemoveChild detaches child from e immediately. It fails if child is not a
// child of e.
func (e *Element) RemoveChild(child *Element) error {
	if child == nil || child.tree != e.tree || e.indexOf(child) < 0 {
		return &TreeError{Op: "removeChild", Msg: "element is not a child"}
	}
	e.detach(child)
	return nil
}

// Remove flags the element for removal from its parent. The detachment
// happens at the next Sweep, so it is safe to call during traversal.
func (e *Element) Remove() {
	e.removePending = true
}

// RemovalPending reports whether Remove was called since the last sweep.
func (e *Element) RemovalPending() bool { return e.removePending }

// Sweep detaches every flagged element in the subtree and returns how many
// were removed.
func (e *Element) Sweep() int {
	if e.removePending && e.parent == NoNode {
		e.removePending = false
	}
	removed := 0
	for _, c := range e.Children() {
		if c.removePending {
			e.detach(c)
			c.removePending = false
			removed++
		}
	}
	for _, c := range e.Children() {
		removed += c.Sweep()
	}
	return removed
}

func (e *Element) detach(child *Element) {
	i := e.indexOf(child)
	if i < 0 {
		return
	}
	e.children = append(e.children[:i:i], e.children[i+1:]...)
	child.parent = NoNode
	child.markStyleStale()
	e.markStyleStale()
	e.cache.Invalidate(FieldDimensions)
}

func (e *Element) indexOf(child *Element) int {
	for i, id := range e.children {
		if id == child.nodeID {
			return i
		}
	}
	return -1
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children() {
		c.Walk(fn)
	}
}

// GetElementByID searches the descendants of e depth-first in pre-order
// and returns the first element with the given id, or nil.
func (e *Element) GetElementByID(id string) *Element {
	for _, cid := range e.children {
		c := e.tree.nodes[cid]
		if c.id == id {
			return c
		}
		if found := c.GetElementByID(id); found != nil {
			return found
		}
	}
	return nil
}

// IsAncestorOf reports whether e is a proper ancestor of other.
func (e *Element) IsAncestorOf(other *Element) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == e {
			return true
		}
	}
	return false
}

// SetStyle replaces the inline style.
func (e *Element) SetStyle(inline string) {
	e.inlineRaw = inline
	e.inline = css.ParseDeclarations(inline)
	e.markStyleStale()
}

// SetDefaults replaces the element's default declarations.
func (e *Element) SetDefaults(block css.Block) {
	e.defaults = block
	e.markStyleStale()
}

// InlineStyle returns the raw inline style text.
func (e *Element) InlineStyle() string { return e.inlineRaw }

// Style returns the resolved ruleset, re-resolving it first if anything it
// depends on changed.
func (e *Element) Style() *css.Ruleset {
	if !e.styleStale {
		return e.style
	}
	var parentStyle *css.Ruleset
	if p := e.Parent(); p != nil {
		parentStyle = p.Style()
	}

	blocks := []css.Block{e.defaults}
	blocks = append(blocks, e.tree.sheet.Match(matchNode{e})...)
	next := e.tree.cascade.Resolve(blocks, e.inline, parentStyle)

	for _, id := range e.style.Update(next) {
		e.cache.Invalidate(fieldFor(id))
	}
	e.styleStale = false
	return e.style
}

// StyleStale reports whether Style will re-resolve on its next call.
func (e *Element) StyleStale() bool { return e.styleStale }

// markStyleStale flags the subtree for re-resolution; inherited values and
// descendant selectors may depend on e.
func (e *Element) markStyleStale() {
	e.dirty = true
	e.styleStale = true
	for _, cid := range e.children {
		e.tree.nodes[cid].markStyleStale()
	}
}

// markStateChanged restyles e and the siblings after it, which sibling
// combinators may match against e's id, classes or hover state.
func (e *Element) markStateChanged() {
	e.markStyleStale()
	p := e.Parent()
	if p == nil {
		return
	}
	for _, cid := range p.children[p.indexOf(e)+1:] {
		e.tree.nodes[cid].markStyleStale()
	}
}

// fieldFor maps a property id to the cache fields derived from it.
func fieldFor(id string) Field {
	switch id {
	case css.PropColor:
		return FieldColor
	case css.PropBackgroundColor:
		return FieldBackgroundColor
	case css.PropBackgroundImage:
		return FieldBackgroundImage
	case css.PropBackgroundRepeat:
		return FieldBackgroundRepeat
	case css.PropFont:
		return FieldFont
	case css.PropDebugColorOuter, css.PropDebugColorInner:
		return FieldDebug
	case css.PropWidth, css.PropHeight, css.PropLeft, css.PropTop, css.PropRight, css.PropBottom,
		css.PropMinWidth, css.PropMinHeight, css.PropMaxWidth, css.PropMaxHeight,
		css.PropDisplay, css.PropPosition:
		return FieldDimensions
	}
	return 0
}

// Contains reports whether (x, y) lies in the element's outer box. Hidden
// elements contain nothing.
func (e *Element) Contains(x, y float64) bool {
	return !e.cache.Hidden && e.cache.Outer.Contains(x, y)
}
