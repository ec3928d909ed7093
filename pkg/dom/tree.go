// Package dom holds element trees: an arena of elements with parent and
// child links stored as indices, per-element resolved style and geometry
// cache, and event dispatch over the tree.
package dom

import (
	"errors"
	"fmt"

	"boxkit/pkg/css"
	"boxkit/pkg/event"
)

// ErrInvalidTreeOperation is wrapped by every TreeError.
var ErrInvalidTreeOperation = errors.New("dom: invalid tree operation")

// TreeError reports a structural operation that was refused. The tree is
// left unchanged.
type TreeError struct {
	Op  string
	Msg string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("dom: %s: %s", e.Op, e.Msg)
}

func (e *TreeError) Unwrap() error { return ErrInvalidTreeOperation }

// NodeID indexes an element in its tree's arena.
type NodeID int

// NoNode is the NodeID of a missing parent.
const NoNode NodeID = -1

// Tree owns every element created through it. Elements reference their
// parent and children by NodeID, so a detached subtree stays alive only as
// long as the tree does.
//
// Callers must not attach an element beneath one of its own descendants;
// that cycle is not detected.
type Tree struct {
	nodes   []*Element
	cascade *css.Cascade
	sheet   *css.Stylesheet
}

// NewTree returns an empty tree resolving styles with cascade. A nil
// cascade uses the default registry.
func NewTree(cascade *css.Cascade) *Tree {
	if cascade == nil {
		cascade = css.NewCascade(nil)
	}
	return &Tree{cascade: cascade, sheet: css.NewStylesheet()}
}

// Cascade returns the cascade used by the tree.
func (t *Tree) Cascade() *css.Cascade { return t.cascade }

// Registry returns the property registry used by the tree.
func (t *Tree) Registry() *css.Registry { return t.cascade.Registry() }

// Stylesheet returns the stylesheet matched against every element.
func (t *Tree) Stylesheet() *css.Stylesheet { return t.sheet }

// SetStylesheet replaces the tree's stylesheet and marks every style stale.
func (t *Tree) SetStylesheet(sheet *css.Stylesheet) {
	if sheet == nil {
		sheet = css.NewStylesheet()
	}
	t.sheet = sheet
	for _, n := range t.nodes {
		n.styleStale = true
		n.dirty = true
	}
}

// AddStylesheet appends the rules of sheet to the tree's stylesheet.
func (t *Tree) AddStylesheet(sheet *css.Stylesheet) {
	merged := css.NewStylesheet()
	merged.Append(t.sheet)
	merged.Append(sheet)
	t.SetStylesheet(merged)
}

// Len returns the number of elements in the arena, attached or not.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the element with the given id, or nil.
func (t *Tree) Node(id NodeID) *Element {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// CreateElement allocates a detached element.
func (t *Tree) CreateElement(tag string) *Element {
	kind := KindOf(tag)
	if kind == KindRawText {
		tag = TagRawText
	}
	e := &Element{
		tree:       t,
		nodeID:     NodeID(len(t.nodes)),
		tag:        tag,
		kind:       kind,
		attrs:      make(map[string]string),
		defaults:   DefaultBlock(kind),
		style:      css.NewRuleset(),
		styleStale: true,
		cache:      NewCache(),
		parent:     NoNode,
		dirty:      true,
		listeners:  event.NewRegistry(),
	}
	t.nodes = append(t.nodes, e)
	return e
}

// CreateText allocates a detached raw text element.
func (t *Tree) CreateText(text string) *Element {
	e := t.CreateElement(TagRawText)
	e.text = text
	return e
}
