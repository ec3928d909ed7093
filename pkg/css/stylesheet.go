package css

import (
	"errors"
	"fmt"
	"strings"
)

// Rule pairs a parsed selector with its declaration block. Order is the
// rule's position in its stylesheet and breaks specificity ties.
type Rule struct {
	Selector     *Selector
	Declarations Block
	Order        int
}

// Stylesheet is an ordered list of rules.
type Stylesheet struct {
	Rules []Rule
}

// NewStylesheet returns an empty stylesheet.
func NewStylesheet() *Stylesheet {
	return &Stylesheet{Rules: make([]Rule, 0)}
}

// Add appends a rule built from selector text and a declaration block.
func (s *Stylesheet) Add(selector string, block Block) error {
	sel, err := ParseSelector(selector)
	if err != nil {
		return err
	}
	s.Rules = append(s.Rules, Rule{Selector: sel, Declarations: block, Order: len(s.Rules)})
	return nil
}

// Append adds the rules of other after the rules of s, renumbering them.
func (s *Stylesheet) Append(other *Stylesheet) {
	if other == nil {
		return
	}
	for _, r := range other.Rules {
		r.Order = len(s.Rules)
		s.Rules = append(s.Rules, r)
	}
}

// ParseStylesheet parses "selector { declarations }" rules. Parsing is
// partial-success: malformed rules are skipped and reported together in the
// returned error while the sheet still holds every rule that parsed.
func ParseStylesheet(text string) (*Stylesheet, error) {
	sheet := NewStylesheet()

	text = strings.TrimSpace(stripComments(text))
	if text == "" {
		return sheet, nil
	}

	var errs []error
	for _, ruleStr := range splitRules(text) {
		rule, err := parseRule(ruleStr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rule.Order = len(sheet.Rules)
		sheet.Rules = append(sheet.Rules, rule)
	}
	return sheet, errors.Join(errs...)
}

// stripComments removes /* ... */ comments. An unterminated comment runs to
// the end of the input.
func stripComments(text string) string {
	var sb strings.Builder
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			sb.WriteString(text)
			return sb.String()
		}
		sb.WriteString(text[:start])
		end := strings.Index(text[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		text = text[start+2+end+2:]
	}
}

// splitRules splits the sheet into individual "selector { ... }" strings by
// brace depth. Trailing text without a closing brace is returned as its own
// entry so that it is reported as malformed.
func splitRules(text string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0

	for i, ch := range text {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if ruleStr := strings.TrimSpace(text[start : i+1]); ruleStr != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
			if depth < 0 {
				depth = 0
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		rules = append(rules, rest)
	}
	return rules
}

func parseRule(ruleStr string) (Rule, error) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		return Rule{}, fmt.Errorf("css: rule %q: no opening brace", ruleStr)
	}
	declEnd := strings.LastIndex(ruleStr, "}")
	if declEnd < bracePos {
		return Rule{}, fmt.Errorf("css: rule %q: no closing brace", ruleStr)
	}

	selector, err := ParseSelector(strings.TrimSpace(ruleStr[:bracePos]))
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		Selector:     selector,
		Declarations: ParseDeclarations(ruleStr[bracePos+1 : declEnd]),
	}, nil
}
