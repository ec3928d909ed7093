package css

import "strings"

// selectorToken is one lexical unit of a single selection: either a node
// ("div", "#main", ".a:hover") or an operator (" ", "", ">", "+", "~",
// "||", "|").
type selectorToken struct {
	Value    string
	Operator bool
}

// selectorTokenizer splits one comma-free selection into alternating node
// and operator tokens. Whether the alternation is well formed is checked by
// the parser, not here.
type selectorTokenizer struct {
	input  string
	pos    int
	tokens []selectorToken
	cur    strings.Builder
	space  bool // whitespace seen since the last token
}

func newSelectorTokenizer(input string) *selectorTokenizer {
	return &selectorTokenizer{input: strings.TrimSpace(input)}
}

// Tokenize scans the whole input.
func (t *selectorTokenizer) Tokenize() []selectorToken {
	depth := 0
	for t.pos < len(t.input) {
		ch := t.input[t.pos]

		// Pseudo-class argument lists are copied verbatim.
		if depth > 0 {
			t.cur.WriteByte(ch)
			if ch == '(' {
				depth++
			} else if ch == ')' {
				depth--
			}
			t.pos++
			continue
		}

		switch {
		case ch == '(':
			t.cur.WriteByte(ch)
			depth++
		case isSelectorSpace(ch):
			t.flushNode()
			t.space = true
		case ch == '>' || ch == '+' || ch == '~' || ch == '|':
			op := string(ch)
			if ch == '|' && t.peek() == '|' {
				op = "||"
				t.pos++
			}
			t.flushNode()
			t.tokens = append(t.tokens, selectorToken{Value: op, Operator: true})
			t.space = false
		case ch == '#' || ch == '.':
			if t.cur.Len() > 0 {
				// Compound: "a.b" chains with the empty combinator.
				t.flushNode()
				t.tokens = append(t.tokens, selectorToken{Value: "", Operator: true})
			} else {
				t.descendantIfNeeded()
			}
			t.cur.WriteByte(ch)
			t.space = false
		default:
			if t.cur.Len() == 0 {
				t.descendantIfNeeded()
			}
			t.cur.WriteByte(ch)
			t.space = false
		}
		t.pos++
	}
	t.flushNode()
	return t.tokens
}

// descendantIfNeeded emits the descendant combinator when whitespace
// separated the previous node from the one about to start.
func (t *selectorTokenizer) descendantIfNeeded() {
	if !t.space || len(t.tokens) == 0 {
		return
	}
	if last := t.tokens[len(t.tokens)-1]; !last.Operator {
		t.tokens = append(t.tokens, selectorToken{Value: " ", Operator: true})
	}
}

func (t *selectorTokenizer) flushNode() {
	if t.cur.Len() == 0 {
		return
	}
	t.tokens = append(t.tokens, selectorToken{Value: t.cur.String()})
	t.cur.Reset()
}

func (t *selectorTokenizer) peek() byte {
	if t.pos+1 >= len(t.input) {
		return 0
	}
	return t.input[t.pos+1]
}

func isSelectorSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// splitTopLevel splits s on sep, ignoring separators nested in parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
