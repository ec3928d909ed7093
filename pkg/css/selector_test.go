package css

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector_ID(t *testing.T) {
	sel, err := ParseSelector("#foo")
	require.NoError(t, err)
	require.Len(t, sel.Selections, 1)

	s := sel.Selections[0]
	assert.Equal(t, NodeSelection, s.Kind)
	assert.Equal(t, IDNode, s.Type)
	assert.Equal(t, "foo", s.Name)
	assert.Equal(t, "#foo", sel.Raw)
}

func TestParseSelector_CompoundClasses(t *testing.T) {
	sel, err := ParseSelector(".a.b")
	require.NoError(t, err)
	require.Len(t, sel.Selections, 1)

	s := sel.Selections[0]
	assert.Equal(t, CombinatorSelection, s.Kind)
	assert.Equal(t, CompoundCombinator, s.Operator)
	require.NotNil(t, s.Left)
	require.NotNil(t, s.Right)
	assert.Equal(t, ClassNode, s.Left.Type)
	assert.Equal(t, "a", s.Left.Name)
	assert.Equal(t, ClassNode, s.Right.Type)
	assert.Equal(t, "b", s.Right.Name)
	assert.Equal(t, ".a.b", sel.Raw)
}

func TestParseSelector_Child(t *testing.T) {
	sel, err := ParseSelector("div > span")
	require.NoError(t, err)

	s := sel.Selections[0]
	assert.Equal(t, CombinatorSelection, s.Kind)
	assert.Equal(t, ChildCombinator, s.Operator)
	assert.Equal(t, "div", s.Left.Name)
	assert.Equal(t, "span", s.Right.Name)
}

func TestParseSelector_Operators(t *testing.T) {
	tests := []struct {
		input string
		kind  SelectionKind
		op    string
		raw   string
	}{
		{"a b", CombinatorSelection, DescendantCombinator, "a b"},
		{"a>b", CombinatorSelection, ChildCombinator, "a > b"},
		{"a + b", CombinatorSelection, NextSiblingCombinator, "a + b"},
		{"a~b", CombinatorSelection, SubsequentSiblingCombinator, "a ~ b"},
		{"col || td", CombinatorSelection, ColumnCombinator, "col || td"},
		{"ns|div", SeparatorSelection, NamespaceSeparator, "ns|div"},
		{"a#b", CombinatorSelection, CompoundCombinator, "a#b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseSelector(tt.input)
			require.NoError(t, err)
			require.Len(t, sel.Selections, 1)
			assert.Equal(t, tt.kind, sel.Selections[0].Kind)
			assert.Equal(t, tt.op, sel.Selections[0].Operator)
			assert.Equal(t, tt.raw, sel.Raw)
		})
	}
}

func TestParseSelector_LeftAssociative(t *testing.T) {
	sel, err := ParseSelector("a > b c")
	require.NoError(t, err)

	s := sel.Selections[0]
	assert.Equal(t, DescendantCombinator, s.Operator)
	assert.Equal(t, "c", s.Right.Name)
	require.Equal(t, CombinatorSelection, s.Left.Kind)
	assert.Equal(t, ChildCombinator, s.Left.Operator)
	assert.Equal(t, "a", s.Left.Left.Name)
	assert.Equal(t, "b", s.Left.Right.Name)
}

func TestParseSelector_Universal(t *testing.T) {
	sel, err := ParseSelector("*")
	require.NoError(t, err)
	assert.Equal(t, UniversalNode, sel.Selections[0].Type)
	assert.Equal(t, "*", sel.Selections[0].Name)

	// A bare pseudo-class applies to the universal selector.
	sel, err = ParseSelector(":hover")
	require.NoError(t, err)
	assert.Equal(t, UniversalNode, sel.Selections[0].Type)
	assert.Equal(t, "*", sel.Selections[0].Name)
	require.Len(t, sel.Selections[0].Pseudos, 1)
	assert.Equal(t, "hover", sel.Selections[0].Pseudos[0].Name)
	assert.Equal(t, ":hover", sel.Selections[0].String())
}

func TestParseSelector_Pseudos(t *testing.T) {
	sel, err := ParseSelector("a:hover")
	require.NoError(t, err)
	p := sel.Selections[0].Pseudos[0]
	assert.False(t, p.Element)
	assert.False(t, p.IsFunction())
	assert.Nil(t, p.Args)

	sel, err = ParseSelector("a:foo()")
	require.NoError(t, err)
	p = sel.Selections[0].Pseudos[0]
	assert.True(t, p.IsFunction())
	assert.NotNil(t, p.Args)
	assert.Empty(t, p.Args)
	assert.Equal(t, "a:foo()", sel.Raw)

	sel, err = ParseSelector("li:not(.x, #y)")
	require.NoError(t, err)
	p = sel.Selections[0].Pseudos[0]
	assert.Equal(t, "not", p.Name)
	assert.Equal(t, []string{".x", "#y"}, p.Args)

	sel, err = ParseSelector("p::first-line")
	require.NoError(t, err)
	p = sel.Selections[0].Pseudos[0]
	assert.True(t, p.Element)
	assert.Equal(t, "first-line", p.Name)
	assert.Equal(t, "p", sel.Selections[0].Name)
}

func TestParseSelector_List(t *testing.T) {
	sel, err := ParseSelector("a,  div > span.x:hover , #z")
	require.NoError(t, err)
	assert.Len(t, sel.Selections, 3)
	assert.Equal(t, "a, div > span.x:hover, #z", sel.Raw)

	// Regenerated text parses to the same text again.
	again, err := ParseSelector(sel.Raw)
	require.NoError(t, err)
	assert.Equal(t, sel.Raw, again.Raw)
}

func TestParseSelector_NamesNeverEmpty(t *testing.T) {
	inputs := []string{"*", "div", "#a .b > c + d ~ e", ":hover", "ns|x", "a::before"}
	for _, input := range inputs {
		sel, err := ParseSelector(input)
		require.NoError(t, err, input)
		require.NotEmpty(t, sel.Selections, input)
		for _, s := range sel.Selections {
			s.Walk(func(n *Selection) {
				assert.NotEmpty(t, n.Name, input)
				if n.Type == UniversalNode {
					assert.Equal(t, "*", n.Name, input)
				}
			})
		}
	}
}

func TestParseSelector_Errors(t *testing.T) {
	inputs := []string{
		"",
		"a*",
		"**",
		"*:hover",
		"*::before",
		"a > *:first-child",
		"> a",
		"a >",
		"a > > b",
		"a,,b",
		"div[x]",
		"a:",
		"a:not(.x",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSelector(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSelectorSyntax))

			var syn *SelectorSyntaxError
			require.True(t, errors.As(err, &syn))
			assert.Equal(t, input, syn.Selector)
		})
	}
}

func TestSelection_Specificity(t *testing.T) {
	sel := MustParseSelector("#a .b span:hover")
	assert.Equal(t, Specificity{1, 2, 1}, sel.Selections[0].Specificity())

	sel = MustParseSelector("ns|div")
	assert.Equal(t, Specificity{0, 0, 1}, sel.Selections[0].Specificity())

	sel = MustParseSelector("#a > ns|div")
	assert.Equal(t, Specificity{1, 0, 1}, sel.Selections[0].Specificity())

	assert.True(t, Specificity{0, 1, 0}.Less(Specificity{1, 0, 0}))
	assert.False(t, Specificity{0, 1, 0}.Less(Specificity{0, 1, 0}))
}
