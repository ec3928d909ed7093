package css

import "strings"

// Declaration is one "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Block is an ordered declaration block. Later declarations for the same
// property win.
type Block []Declaration

// Get returns the last value declared for property.
func (b Block) Get(property string) (string, bool) {
	property = strings.ToLower(property)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i].Property == property {
			return b[i].Value, true
		}
	}
	return "", false
}

// ParseDeclarations parses an inline style string such as
// "width: 10px; background: red". Entries without a colon or with an empty
// property name are skipped. Shorthands are expanded in place.
func ParseDeclarations(text string) Block {
	var block Block
	for _, decl := range splitTopLevel(text, ';') {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if property == "" {
			continue
		}
		block = expandShorthand(block, property, value)
	}
	return block
}

// expandShorthand appends property to block, expanding margin, padding and
// background into their longhands.
func expandShorthand(block Block, property, value string) Block {
	switch property {
	case "margin", "padding":
		return expandBoxProperty(block, property, value)
	case "background":
		return expandBackground(block, value)
	}
	return append(block, Declaration{Property: property, Value: value})
}

// expandBoxProperty expands margin/padding shorthand:
// "a" (all), "a b" (vertical horizontal), "a b c" (top horizontal bottom),
// "a b c d" (top right bottom left).
func expandBoxProperty(block Block, prefix, value string) Block {
	parts := strings.Fields(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return block
	}
	return append(block,
		Declaration{Property: prefix + "-top", Value: top},
		Declaration{Property: prefix + "-right", Value: right},
		Declaration{Property: prefix + "-bottom", Value: bottom},
		Declaration{Property: prefix + "-left", Value: left},
	)
}

// expandBackground splits "background: red url(a.png) no-repeat" into
// background-color, background-image and background-repeat. Parts that are
// not recognised as an image or repeat keyword are taken as the color.
func expandBackground(block Block, value string) Block {
	for _, part := range fieldsOutsideParens(value) {
		lower := strings.ToLower(part)
		switch {
		case strings.HasPrefix(lower, "url("):
			block = append(block, Declaration{Property: PropBackgroundImage, Value: part})
		case lower == "none":
			block = append(block, Declaration{Property: PropBackgroundImage, Value: "none"})
		case isRepeatKeyword(lower):
			block = append(block, Declaration{Property: PropBackgroundRepeat, Value: lower})
		default:
			block = append(block, Declaration{Property: PropBackgroundColor, Value: part})
		}
	}
	return block
}

func isRepeatKeyword(s string) bool {
	switch s {
	case "repeat", "repeat-x", "repeat-y", "no-repeat", "round", "space":
		return true
	}
	return false
}

// fieldsOutsideParens is strings.Fields that keeps "rgb(1, 2, 3)" whole.
func fieldsOutsideParens(s string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '(':
			depth++
		case ch == ')' && depth > 0:
			depth--
		case isSelectorSpace(ch) && depth == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteByte(ch)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// String renders the block back to inline style text.
func (b Block) String() string {
	parts := make([]string, len(b))
	for i, d := range b {
		parts[i] = d.Property + ": " + d.Value
	}
	return strings.Join(parts, "; ")
}
