package regex

import (
	"testing"
	"unicode"

	"gotest.tools/v3/assert"

	"github.com/magnetde/starlark-jsre/coderange"
)

func single(c rune) []rng {
	return []rng{{Lo: c, Hi: c}}
}

func TestCaseClosure(t *testing.T) {
	tests := []struct {
		in      []rng
		unicode bool
		want    []rng
	}{
		{single('k'), false, []rng{{Lo: 'K', Hi: 'K'}, {Lo: 'k', Hi: 'k'}}},
		{single('k'), true, []rng{{Lo: 'K', Hi: 'K'}, {Lo: 'k', Hi: 'k'}, {Lo: 0x212A, Hi: 0x212A}}},
		{single(0x212A), false, single(0x212A)},
		{single('s'), false, []rng{{Lo: 'S', Hi: 'S'}, {Lo: 's', Hi: 's'}}},
		{single('s'), true, []rng{{Lo: 'S', Hi: 'S'}, {Lo: 's', Hi: 's'}, {Lo: 0x17F, Hi: 0x17F}}},
		{single(0xB5), false, []rng{{Lo: 0xB5, Hi: 0xB5}, {Lo: 0x39C, Hi: 0x39C}, {Lo: 0x3BC, Hi: 0x3BC}}},
		{single(0xDF), false, single(0xDF)},
		{single(0xDF), true, []rng{{Lo: 0xDF, Hi: 0xDF}, {Lo: 0x1E9E, Hi: 0x1E9E}}},
		{single('1'), true, single('1')},
		{[]rng{{Lo: 'a', Hi: 'c'}}, false, []rng{{Lo: 'A', Hi: 'C'}, {Lo: 'a', Hi: 'c'}}},
	}

	for _, test := range tests {
		got := caseClosure(test.in, test.unicode, unicode.MaxRune)
		assert.DeepEqual(t, got, test.want)
	}
}

func TestCaseClosureLimit(t *testing.T) {
	// U+10400 DESERET CAPITAL LONG I folds to U+10428
	got := caseClosure(single(0x10400), true, unicode.MaxRune)
	assert.DeepEqual(t, got, []rng{{Lo: 0x10400, Hi: 0x10400}, {Lo: 0x10428, Hi: 0x10428}})

	got = caseClosure([]rng{{Lo: 'a', Hi: 'a'}}, true, 'Z')
	assert.DeepEqual(t, got, single('A'))
}

func TestCaseClosureIsClosed(t *testing.T) {
	in := []rng{{Lo: 0x370, Hi: 0x3FF}}

	for _, u := range []bool{false, true} {
		once := caseClosure(in, u, unicode.MaxRune)
		twice := caseClosure(once, u, unicode.MaxRune)

		assert.Assert(t, coderange.IsNormalized(once))
		assert.DeepEqual(t, once, twice)
	}
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, canonicalize('a'), 'A')
	assert.Equal(t, canonicalize('A'), 'A')
	assert.Equal(t, canonicalize(0x17F), rune(0x17F))
	assert.Equal(t, canonicalize(0x3BC), rune(0x39C))
	assert.Equal(t, canonicalize('1'), '1')
}
