package regex

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/magnetde/starlark-jsre/util"
)

// codePointInput returns the input consisting of the single code point c.
// Surrogate code points become lone surrogate units.
func codePointInput(c rune) *Input {
	if util.IsHighSurrogate(c) || util.IsLowSurrogate(c) {
		return NewInput(util.FromUTF16([]rune{c}))
	}
	return NewInput(string(c))
}

func matches(t *testing.T, re *Regexp, in *Input) bool {
	t.Helper()

	a, err := re.FindAt(in, 0, nil)
	assert.NilError(t, err)
	return a != nil
}

func TestLetterRangeLegacy(t *testing.T) {
	re := MustCompile(`^[a-z]$`, "")

	limit := rune(unicode.MaxRune)
	if testing.Short() {
		limit = 0xFFFF
	}

	n := 0
	for c := rune(0); c <= limit; c++ {
		if matches(t, re, codePointInput(c)) {
			assert.Assert(t, 'a' <= c && c <= 'z', "unexpected match %U", c)
			n++
		}
	}

	assert.Equal(t, n, 26)
}

func TestDotLineTerminators(t *testing.T) {
	terminators := []rune{'\n', '\r', 0x2028, 0x2029}

	dot := MustCompile(`.`, "")
	dotAll := MustCompile(`.`, "s")
	for _, c := range terminators {
		assert.Assert(t, !matches(t, dot, codePointInput(c)), "%U", c)
		assert.Assert(t, matches(t, dotAll, codePointInput(c)), "%U", c)
	}

	in := NewInput("😀")
	for _, flags := range []string{"u", "su"} {
		re := MustCompile(`.`, flags)

		a, err := re.FindAt(in, 0, nil)
		assert.NilError(t, err)
		assert.DeepEqual(t, a, []int{0, 2})
	}

	a, err := MustCompile(`.`, "s").FindAt(in, 0, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, a, []int{0, 1})
}

func TestAstralEscape(t *testing.T) {
	re := MustCompile(`\u{1F4A9}`, "u")

	assert.Assert(t, matches(t, re, NewInput("💩")))
	assert.Assert(t, !matches(t, re, codePointInput(0xD83D)))
	assert.Assert(t, !matches(t, re, codePointInput(0xDCA9)))
}

func TestAstralCodePoints(t *testing.T) {
	step := rune(7)
	if testing.Short() {
		step = 0x3F1
	}

	patterns := []*Regexp{
		MustCompile(`^.$`, "u"),
		MustCompile(`^.$`, "su"),
		MustCompile(`^[^x]$`, "u"),
		MustCompile(`^\S$`, "u"),
		MustCompile(`^\D$`, "u"),
		MustCompile(`^[\0-\u{10FFFF}]$`, "u"),
	}

	for c := rune(0x10000); c <= unicode.MaxRune; c += step {
		in := codePointInput(c)
		for _, re := range patterns {
			a, err := re.FindAt(in, 0, nil)
			assert.NilError(t, err)
			assert.Check(t, is.DeepEqual(a, []int{0, 2}), "%U does not match %s", c, re)
		}
	}

	// a single code unit of a pair is never matched
	half := MustCompile(`.(?!$)`, "u")
	assert.Assert(t, !matches(t, half, NewInput("😀")))
}

func TestLoneSurrogates(t *testing.T) {
	legacy := MustCompile(`\uD83D`, "")
	assert.Assert(t, matches(t, legacy, NewInput("😀")))

	uni := MustCompile(`\uD83D`, "u")
	assert.Assert(t, !matches(t, uni, NewInput("😀")))
	assert.Assert(t, matches(t, uni, codePointInput(0xD83D)))

	low := MustCompile(`[\uDE00]`, "u")
	assert.Assert(t, !matches(t, low, NewInput("😀")))
	assert.Assert(t, matches(t, low, NewInput("a"+util.FromUTF16([]rune{0xDE00}))))
}

func TestSticky(t *testing.T) {
	re := MustCompile(`a`, "y")
	in := NewInput("ba")

	a, err := re.FindAt(in, 0, nil)
	assert.NilError(t, err)
	assert.Assert(t, is.Nil(a))

	a, err = re.FindAt(in, 1, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, a, []int{1, 2})

	// lookbehind sees the text before the start position
	re = MustCompile(`(?<=b)a`, "y")
	a, err = re.FindAt(in, 1, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, a, []int{1, 2})
}

func TestFindAt(t *testing.T) {
	re := MustCompile(`(?<x>a)|(b)`, "")
	in := NewInput("cab")

	a, err := re.FindAt(in, 0, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, a, []int{1, 2, 1, 2, -1, -1})

	a, err = re.FindAt(in, 2, a)
	assert.NilError(t, err)
	assert.DeepEqual(t, a, []int{2, 3, -1, -1, 2, 3})

	a, err = re.FindAt(in, 4, nil)
	assert.NilError(t, err)
	assert.Assert(t, is.Nil(a))

	a, err = re.FindAt(in, -1, nil)
	assert.NilError(t, err)
	assert.Assert(t, is.Nil(a))

	assert.Equal(t, re.NumGroups(), 2)
	assert.Equal(t, re.GroupIndex("x"), 1)
	assert.Equal(t, re.String(), `(?<x>a)|(b)`)
	assert.Equal(t, re.Flags(), Flags(0))
}

func TestCompile(t *testing.T) {
	res, err := Translate(`a+`, "")
	assert.NilError(t, err)

	re, err := Compile(res, WithMatchTimeout(time.Second))
	assert.NilError(t, err)
	assert.Equal(t, re.re.MatchTimeout, time.Second)
	assert.Equal(t, re.Result(), res)

	_, err = Compile(&Result{Pattern: `(`})
	assert.ErrorContains(t, err, "cannot compile translated pattern")
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		assert.Assert(t, ok)
		assert.Assert(t, IsSyntaxError(err))
	}()

	MustCompile(`(`, "")
}

func TestInputOffsets(t *testing.T) {
	in := NewInput("aé😀b")

	assert.Equal(t, in.Len(), 5)
	assert.Equal(t, in.String(), "aé😀b")

	assert.Equal(t, in.ByteOffset(0), 0)
	assert.Equal(t, in.ByteOffset(1), 1)
	assert.Equal(t, in.ByteOffset(2), 3)
	assert.Equal(t, in.ByteOffset(3), 3)
	assert.Equal(t, in.ByteOffset(4), 7)
	assert.Equal(t, in.ByteOffset(5), 8)

	assert.Equal(t, in.UnitOffset(2), 1)
	assert.Equal(t, in.UnitOffset(3), 2)
	assert.Equal(t, in.UnitOffset(7), 4)
	assert.Equal(t, in.UnitOffset(8), 5)

	assert.Equal(t, in.Substring(2, 4), "😀")
	assert.Equal(t, in.Substring(1, 5), "é😀b")
	assert.Equal(t, in.Substring(2, 3), util.FromUTF16([]rune{0xD83D}))

	assert.Equal(t, in.AdvanceIndex(2, true), 4)
	assert.Equal(t, in.AdvanceIndex(2, false), 3)
	assert.Equal(t, in.AdvanceIndex(3, true), 4)
	assert.Equal(t, in.AdvanceIndex(4, true), 5)
}

func TestInputASCII(t *testing.T) {
	s := strings.Repeat("ab", 3)
	in := NewInput(s)

	assert.Equal(t, in.Len(), 6)
	assert.Equal(t, in.ByteOffset(4), 4)
	assert.Equal(t, in.UnitOffset(6), 6)
	assert.Equal(t, in.Substring(1, 3), "ba")
}
