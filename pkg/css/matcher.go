package css

import (
	"sort"
	"strings"
)

// Matchable is the view of an element that selector matching needs.
// Implementations must return a nil interface, not a typed nil, when there
// is no parent or sibling.
type Matchable interface {
	TagName() string
	ElementID() string
	HasClass(name string) bool
	ParentMatchable() Matchable
	PrevSiblingMatchable() Matchable
	NextSiblingMatchable() Matchable
	Hovered() bool
}

// Matches reports whether el matches any selection of s.
func (s *Selector) Matches(el Matchable) bool {
	_, ok := s.MatchSpecificity(el)
	return ok
}

// MatchSpecificity returns the highest specificity among the selections of s
// that match el.
func (s *Selector) MatchSpecificity(el Matchable) (Specificity, bool) {
	var best Specificity
	found := false
	for _, sel := range s.Selections {
		if !MatchSelection(el, sel) {
			continue
		}
		spec := sel.Specificity()
		if !found || best.Less(spec) {
			best = spec
		}
		found = true
	}
	return best, found
}

// MatchSelection matches one selection against el. Selections are folded
// left-associatively, so the right operand always describes el itself or,
// for compound chains, another condition on el.
func MatchSelection(el Matchable, s *Selection) bool {
	if el == nil || s == nil {
		return false
	}

	switch s.Kind {
	case NodeSelection:
		return matchNode(el, s)
	case SeparatorSelection:
		if r := s.namespaced(); r != s {
			return MatchSelection(el, r)
		}
		// Namespaces are not modelled; only the local part is checked.
		return MatchSelection(el, s.Right)
	}

	switch s.Operator {
	case CompoundCombinator:
		return MatchSelection(el, s.Right) && MatchSelection(el, s.Left)

	case DescendantCombinator:
		if !MatchSelection(el, s.Right) {
			return false
		}
		for p := el.ParentMatchable(); p != nil; p = p.ParentMatchable() {
			if MatchSelection(p, s.Left) {
				return true
			}
		}
		return false

	case ChildCombinator:
		if !MatchSelection(el, s.Right) {
			return false
		}
		p := el.ParentMatchable()
		return p != nil && MatchSelection(p, s.Left)

	case NextSiblingCombinator:
		if !MatchSelection(el, s.Right) {
			return false
		}
		prev := el.PrevSiblingMatchable()
		return prev != nil && MatchSelection(prev, s.Left)

	case SubsequentSiblingCombinator:
		if !MatchSelection(el, s.Right) {
			return false
		}
		for prev := el.PrevSiblingMatchable(); prev != nil; prev = prev.PrevSiblingMatchable() {
			if MatchSelection(prev, s.Left) {
				return true
			}
		}
		return false
	}

	// Column combinator: there is no table model, so nothing matches.
	return false
}

func matchNode(el Matchable, n *Selection) bool {
	switch n.Type {
	case TagNode:
		if !strings.EqualFold(el.TagName(), n.Name) {
			return false
		}
	case IDNode:
		if el.ElementID() != n.Name {
			return false
		}
	case ClassNode:
		if !el.HasClass(n.Name) {
			return false
		}
	}

	for _, p := range n.Pseudos {
		if !matchPseudo(el, p) {
			return false
		}
	}
	return true
}

func matchPseudo(el Matchable, p Pseudo) bool {
	if p.Element {
		return false
	}
	switch p.Name {
	case "hover":
		return el.Hovered()
	case "first-child":
		return el.ParentMatchable() != nil && el.PrevSiblingMatchable() == nil
	case "last-child":
		return el.ParentMatchable() != nil && el.NextSiblingMatchable() == nil
	case "only-child":
		return el.ParentMatchable() != nil && el.PrevSiblingMatchable() == nil && el.NextSiblingMatchable() == nil
	case "root":
		return el.ParentMatchable() == nil
	case "not":
		if !p.IsFunction() {
			return false
		}
		for _, arg := range p.Args {
			sel, err := ParseSelector(arg)
			if err != nil {
				return false
			}
			if sel.Matches(el) {
				return false
			}
		}
		return true
	}
	return false
}

// MatchedBlock is a declaration block selected for an element.
type MatchedBlock struct {
	Rule        *Rule
	Specificity Specificity
}

// Match returns the declaration blocks of every rule matching el, ordered
// by ascending specificity with source order breaking ties, which is the
// order in which they are applied.
func (s *Stylesheet) Match(el Matchable) []Block {
	if s == nil {
		return nil
	}
	matched := make([]MatchedBlock, 0)
	for i := range s.Rules {
		rule := &s.Rules[i]
		if spec, ok := rule.Selector.MatchSpecificity(el); ok {
			matched = append(matched, MatchedBlock{Rule: rule, Specificity: spec})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Specificity != matched[j].Specificity {
			return matched[i].Specificity.Less(matched[j].Specificity)
		}
		return matched[i].Rule.Order < matched[j].Rule.Order
	})

	blocks := make([]Block, len(matched))
	for i, m := range matched {
		blocks[i] = m.Rule.Declarations
	}
	return blocks
}
