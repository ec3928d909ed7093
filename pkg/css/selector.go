package css

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSelectorSyntax is wrapped by every SelectorSyntaxError.
var ErrSelectorSyntax = errors.New("css: selector syntax error")

// SelectorSyntaxError reports a malformed selector. Pos is the index of the
// offending token within its selection, or -1 when the whole selection is
// at fault.
type SelectorSyntaxError struct {
	Selector string
	Pos      int
	Msg      string
}

func (e *SelectorSyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("css: invalid selector %q: %s", e.Selector, e.Msg)
	}
	return fmt.Sprintf("css: invalid selector %q at token %d: %s", e.Selector, e.Pos, e.Msg)
}

func (e *SelectorSyntaxError) Unwrap() error { return ErrSelectorSyntax }

// SelectionKind discriminates the variants of Selection.
type SelectionKind int

const (
	NodeSelection SelectionKind = iota
	CombinatorSelection
	SeparatorSelection
)

func (k SelectionKind) String() string {
	switch k {
	case NodeSelection:
		return "node"
	case CombinatorSelection:
		return "combinator"
	case SeparatorSelection:
		return "separator"
	}
	return "unknown"
}

// NodeType is the kind of a simple selector.
type NodeType string

const (
	UniversalNode NodeType = "universal"
	IDNode        NodeType = "id"
	ClassNode     NodeType = "class"
	TagNode       NodeType = "tag"
)

// Combinator and separator operators.
const (
	CompoundCombinator          = ""
	DescendantCombinator        = " "
	ChildCombinator             = ">"
	NextSiblingCombinator       = "+"
	SubsequentSiblingCombinator = "~"
	ColumnCombinator            = "||"
	NamespaceSeparator          = "|"
)

// Pseudo is a pseudo-class (":hover") or pseudo-element ("::before").
// Args is nil when the pseudo is not a function call and empty, but
// non-nil, for a call with no arguments (":foo()").
type Pseudo struct {
	Element bool
	Name    string
	Args    []string
}

// IsFunction reports whether the pseudo was written as a function call.
func (p Pseudo) IsFunction() bool { return p.Args != nil }

func (p Pseudo) String() string {
	var sb strings.Builder
	if p.Element {
		sb.WriteString("::")
	} else {
		sb.WriteString(":")
	}
	sb.WriteString(p.Name)
	if p.Args != nil {
		sb.WriteString("(")
		sb.WriteString(strings.Join(p.Args, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Selection is one node of a selector AST. Node selections carry Type, Name
// and Pseudos; combinator and separator selections carry Left, Right and
// Operator.
type Selection struct {
	Kind SelectionKind

	Type    NodeType
	Name    string
	Pseudos []Pseudo

	Left     *Selection
	Right    *Selection
	Operator string
}

// String regenerates selector text from the AST. Whitespace is normalised.
func (s *Selection) String() string {
	switch s.Kind {
	case NodeSelection:
		var sb strings.Builder
		switch s.Type {
		case IDNode:
			sb.WriteString("#" + s.Name)
		case ClassNode:
			sb.WriteString("." + s.Name)
		case UniversalNode:
			// Pseudos stand alone: "*" takes none.
			if len(s.Pseudos) == 0 {
				sb.WriteString(s.Name)
			}
		default:
			sb.WriteString(s.Name)
		}
		for _, p := range s.Pseudos {
			sb.WriteString(p.String())
		}
		return sb.String()
	case SeparatorSelection:
		return s.Left.String() + s.Operator + s.Right.String()
	default:
		switch s.Operator {
		case CompoundCombinator:
			return s.Left.String() + s.Right.String()
		case DescendantCombinator:
			return s.Left.String() + " " + s.Right.String()
		}
		return s.Left.String() + " " + s.Operator + " " + s.Right.String()
	}
}

// Walk visits every node selection in left-to-right order.
func (s *Selection) Walk(fn func(*Selection)) {
	if s == nil {
		return
	}
	if s.Kind == NodeSelection {
		fn(s)
		return
	}
	s.Left.Walk(fn)
	s.Right.Walk(fn)
}

// Specificity is the (ids, classes, tags) triple used to order rules.
type Specificity [3]int

// Less compares two specificities lexicographically.
func (a Specificity) Less(b Specificity) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Specificity computes the selection's specificity. For a namespace
// separator only the right-hand side counts.
func (s *Selection) Specificity() Specificity {
	var spec Specificity
	s.walkMatched(func(n *Selection) {
		switch n.Type {
		case IDNode:
			spec[0]++
		case ClassNode:
			spec[1]++
		case TagNode:
			spec[2]++
		}
		for _, p := range n.Pseudos {
			if p.Element {
				spec[2]++
			} else {
				spec[1]++
			}
		}
	})
	return spec
}

// walkMatched is Walk without the namespace side of separators.
func (s *Selection) walkMatched(fn func(*Selection)) {
	if s == nil {
		return
	}
	switch s.Kind {
	case NodeSelection:
		fn(s)
	case SeparatorSelection:
		if r := s.namespaced(); r != s {
			r.walkMatched(fn)
			return
		}
		s.Right.walkMatched(fn)
	default:
		s.Left.walkMatched(fn)
		s.Right.walkMatched(fn)
	}
}

// namespaced undoes the left fold for a separator: "a > ns|b" folds as
// (a > ns)|b, but the namespace belongs to b alone. The result is
// a > (ns|b). Any other selection is returned unchanged.
func (s *Selection) namespaced() *Selection {
	if s.Kind != SeparatorSelection || s.Left == nil || s.Left.Kind != CombinatorSelection {
		return s
	}
	l := s.Left
	inner := &Selection{Kind: SeparatorSelection, Left: l.Right, Right: s.Right, Operator: s.Operator}
	return &Selection{Kind: CombinatorSelection, Left: l.Left, Right: inner.namespaced(), Operator: l.Operator}
}

// Selector is a parsed selector list.
type Selector struct {
	Raw        string
	Selections []*Selection
}

func (s *Selector) String() string { return s.Raw }

// ParseSelector parses a comma separated selector list. The returned
// Selector's Raw field is regenerated from the AST.
func ParseSelector(raw string) (*Selector, error) {
	sel := &Selector{}
	for _, part := range splitTopLevel(raw, ',') {
		selection, err := parseSelection(strings.TrimSpace(part))
		if err != nil {
			var syn *SelectorSyntaxError
			if errors.As(err, &syn) {
				syn.Selector = raw
			}
			return nil, err
		}
		sel.Selections = append(sel.Selections, selection)
	}

	raws := make([]string, len(sel.Selections))
	for i, s := range sel.Selections {
		raws[i] = s.String()
	}
	sel.Raw = strings.Join(raws, ", ")
	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error. It is meant
// for built-in stylesheets and tests.
func MustParseSelector(raw string) *Selector {
	s, err := ParseSelector(raw)
	if err != nil {
		panic(err)
	}
	return s
}

func parseSelection(text string) (*Selection, error) {
	if text == "" {
		return nil, &SelectorSyntaxError{Selector: text, Pos: -1, Msg: "empty selection"}
	}

	tokens := newSelectorTokenizer(text).Tokenize()
	if len(tokens) == 0 {
		return nil, &SelectorSyntaxError{Selector: text, Pos: -1, Msg: "empty selection"}
	}

	// Fold left-associatively: node (op node)*.
	var acc *Selection
	var pendingOp string
	for i, tok := range tokens {
		wantNode := i%2 == 0
		if tok.Operator == wantNode {
			if tok.Operator {
				return nil, &SelectorSyntaxError{Selector: text, Pos: i, Msg: fmt.Sprintf("unexpected operator %q", tok.Value)}
			}
			return nil, &SelectorSyntaxError{Selector: text, Pos: i, Msg: fmt.Sprintf("expected operator before %q", tok.Value)}
		}

		if tok.Operator {
			pendingOp = tok.Value
			continue
		}

		node, err := parseNode(tok.Value)
		if err != nil {
			err.Selector = text
			err.Pos = i
			return nil, err
		}
		if acc == nil {
			acc = node
			continue
		}

		kind := CombinatorSelection
		if pendingOp == NamespaceSeparator {
			kind = SeparatorSelection
		}
		acc = &Selection{Kind: kind, Left: acc, Right: node, Operator: pendingOp}
	}

	if tokens[len(tokens)-1].Operator {
		return nil, &SelectorSyntaxError{Selector: text, Pos: len(tokens) - 1, Msg: "selection ends with an operator"}
	}
	return acc, nil
}

// parseNode parses one simple selector token such as "div", "#id",
// ".cls:hover" or "::before".
func parseNode(tok string) (*Selection, *SelectorSyntaxError) {
	base, pseudoText := tok, ""
	if i := strings.IndexByte(tok, ':'); i >= 0 {
		base, pseudoText = tok[:i], tok[i:]
	}

	node := &Selection{Kind: NodeSelection}
	switch {
	case base == "" || base == "*":
		node.Type, node.Name = UniversalNode, "*"
	case base[0] == '#':
		node.Type, node.Name = IDNode, base[1:]
	case base[0] == '.':
		node.Type, node.Name = ClassNode, base[1:]
	default:
		node.Type, node.Name = TagNode, base
	}

	if base == "" && pseudoText == "" {
		return nil, &SelectorSyntaxError{Msg: "empty node"}
	}
	if base == "*" && pseudoText != "" {
		return nil, &SelectorSyntaxError{Msg: "'*' is only valid on its own"}
	}
	if node.Type != UniversalNode {
		if err := checkIdent(node.Name); err != nil {
			return nil, err
		}
	}

	pseudos, err := parsePseudos(pseudoText)
	if err != nil {
		return nil, err
	}
	node.Pseudos = pseudos
	return node, nil
}

func checkIdent(name string) *SelectorSyntaxError {
	if name == "" {
		return &SelectorSyntaxError{Msg: "missing name"}
	}
	for _, r := range name {
		switch {
		case r == '*':
			return &SelectorSyntaxError{Msg: "'*' is only valid on its own"}
		case r == '[':
			return &SelectorSyntaxError{Msg: "attribute selectors are not supported"}
		case r == '-' || r == '_' || r > 0x7f:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return &SelectorSyntaxError{Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return nil
}

func parsePseudos(text string) ([]Pseudo, *SelectorSyntaxError) {
	var out []Pseudo
	for len(text) > 0 {
		if text[0] != ':' {
			return nil, &SelectorSyntaxError{Msg: fmt.Sprintf("unexpected %q after pseudo", text)}
		}
		p := Pseudo{}
		if strings.HasPrefix(text, "::") {
			p.Element = true
			text = text[2:]
		} else {
			text = text[1:]
		}

		end := 0
		for end < len(text) && text[end] != ':' && text[end] != '(' {
			end++
		}
		p.Name = strings.ToLower(text[:end])
		if err := checkIdent(p.Name); err != nil {
			return nil, err
		}
		text = text[end:]

		if strings.HasPrefix(text, "(") {
			closeAt := matchingParen(text)
			if closeAt < 0 {
				return nil, &SelectorSyntaxError{Msg: "unterminated pseudo-class arguments"}
			}
			p.Args = []string{}
			if inner := strings.TrimSpace(text[1:closeAt]); inner != "" {
				for _, a := range splitTopLevel(inner, ',') {
					p.Args = append(p.Args, strings.TrimSpace(a))
				}
			}
			text = text[closeAt+1:]
		}
		out = append(out, p)
	}
	return out, nil
}

// matchingParen returns the index of the parenthesis closing text[0].
func matchingParen(text string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
