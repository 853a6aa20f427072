package regex

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestTargetName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"abc", "abc"},
		{"_a1", "_a1"},
		{"A_Z", "A_Z"},
		{"$", "_X24"},
		{"a$", "_X6124"},
		{"é", "_XC3A9"},
		{"π1", "_XCF8031"},
	}

	for _, test := range tests {
		assert.Equal(t, targetName(test.name), test.want)
	}

	assert.Assert(t, !isTargetName(""))
	assert.Assert(t, !isTargetName("1a"))
}

func TestAssignTargetNames(t *testing.T) {
	groups := []CaptureGroup{
		{Index: 1, Start: 0, Name: "a"},
		{Index: 2, Start: 5},
		{Index: 3, Start: 8, Name: "é"},
		{Index: 4, Start: 14, Name: "a"},
	}

	names, err := assignTargetNames(groups)
	assert.NilError(t, err)
	assert.DeepEqual(t, names, map[string]string{"a": "a", "é": "_XC3A9"})

	assert.Equal(t, groups[0].TargetName, "a")
	assert.Equal(t, groups[1].TargetName, "")
	assert.Equal(t, groups[2].TargetName, "_XC3A9")
	assert.Equal(t, groups[3].TargetName, "a")
}

func TestAssignTargetNamesCollision(t *testing.T) {
	groups := []CaptureGroup{
		{Index: 1, Start: 0, Name: "_X24"},
		{Index: 2, Start: 9, Name: "$"},
	}

	_, err := assignTargetNames(groups)

	ce, ok := err.(*ConversionError)
	assert.Assert(t, ok, "%v", err)
	assert.Equal(t, ce.Msg, "group name collision")
	assert.Equal(t, ce.Offset, 9)
}

func TestScopeStack(t *testing.T) {
	var st scopeStack
	st.init()

	assert.Assert(t, st.declare("a"))
	assert.Assert(t, !st.declare("a"))

	// (?:(?<b>)|(?<b>))
	st.push()
	assert.Assert(t, st.declare("b"))
	st.alternate()
	assert.Assert(t, st.declare("b"))
	assert.Assert(t, !st.declare("a"))
	st.pop()

	// b is bound after the group
	assert.Assert(t, !st.declare("b"))

	// a new top level alternative starts with no names
	st.alternate()
	assert.Assert(t, st.declare("a"))
	assert.Assert(t, st.declare("b"))
}
