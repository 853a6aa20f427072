package regex

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func validatePattern(p string, unicodeMode bool) (*structure, error) {
	var s source
	s.init(p, 0)
	return validate(&s, unicodeMode)
}

func TestValidateKinds(t *testing.T) {
	st, err := validatePattern(`a(b)(?:c)(?<n>d)(?=e)(?!f)(?<=g)(?<!h)`, false)
	assert.NilError(t, err)

	var kinds []groupKind
	for _, o := range st.opens {
		kinds = append(kinds, o.kind)
	}

	want := []groupKind{
		groupCapture, groupNonCapture, groupNamed, groupLookahead,
		groupNegLookahead, groupLookbehind, groupNegLookbehind,
	}
	assert.DeepEqual(t, kinds, want)

	assert.Equal(t, st.opens[0].pos, 1)
	assert.Equal(t, st.opens[0].end, 2)
	assert.Equal(t, st.opens[0].group, 0)
	assert.Equal(t, st.opens[1].group, -1)
	assert.Equal(t, st.opens[2].name, "n")
	assert.Equal(t, st.opens[2].end, 14)
	assert.Equal(t, st.opens[2].group, 1)

	assert.Assert(t, st.hasNames())
	assert.DeepEqual(t, st.groups, []CaptureGroup{
		{Index: 1, Start: 1},
		{Index: 2, Start: 9, Name: "n"},
	})
}

func TestValidateSkipsEscapesAndClasses(t *testing.T) {
	st, err := validatePattern(`\(\[[(\]]\)`, true)
	assert.NilError(t, err)
	assert.Check(t, is.Len(st.opens, 0))
	assert.Check(t, !st.hasNames())
}

func TestValidateNames(t *testing.T) {
	st, err := validatePattern(`(?<a>x)|(?<a>y)(?<b>z)`, false)
	assert.NilError(t, err)
	assert.DeepEqual(t, st.names, map[string]int{"a": 2, "b": 1})
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		pattern string
		unicode bool
		msg     string
		offset  int
	}{
		{`(`, false, "unterminated group", 1},
		{`(()`, false, "unterminated group", 3},
		{`())`, false, "unmatched ')'", 2},
		{`[`, false, "unterminated character class", 1},
		{`[\]`, false, "unterminated character class", 3},
		{`\`, false, `\ at end of pattern`, 0},
		{`(?`, false, "invalid group", 0},
		{`(?<`, false, "invalid capture group name", 2},
		{`(?<a`, false, "invalid capture group name", 2},
		{`]`, true, "unmatched ']'", 0},
		{`a{1`, true, "incomplete quantifier", 3},
		{`a{{`, true, "lone quantifier brackets", 2},
		{`a}`, true, "lone quantifier brackets", 1},
	}

	for _, test := range tests {
		_, err := validatePattern(test.pattern, test.unicode)

		se, ok := err.(*SyntaxError)
		assert.Assert(t, ok, "pattern %q: %v", test.pattern, err)
		assert.Equal(t, se.Msg, test.msg, "pattern %q", test.pattern)
		assert.Equal(t, se.Offset, test.offset, "pattern %q", test.pattern)
	}

	// braces and brackets are ordinary characters in legacy mode
	_, err := validatePattern(`]a{{}`, false)
	assert.NilError(t, err)
}

func TestValidateBase(t *testing.T) {
	var s source
	s.init(`ab)`, 4)

	_, err := validate(&s, false)
	assert.Error(t, err, "invalid regular expression: unmatched ')' at position 6")
}
