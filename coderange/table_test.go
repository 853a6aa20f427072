package coderange

import (
	"testing"

	"gotest.tools/v3/assert"
)

// containsRune checks the membership of r in rs by a linear scan.
func containsRune(rs []Range, r rune) bool {
	for _, x := range rs {
		if x.Contains(r) {
			return true
		}
	}
	return false
}

func TestTableContains(t *testing.T) {
	rs := mustParse(t, "[U+0000 U+0030..U+0039 U+0041..U+005A U+00C0..U+00D6 U+2028..U+2029 U+D800..U+DBFF U+1F600..U+1F64F U+10FFFF]")
	tbl := Encode(rs)

	check := func(r rune) {
		assert.Equal(t, tbl.Contains(r), containsRune(rs, r), "rune %U", r)
	}

	for r := rune(0); r <= 0xFFFF; r++ {
		check(r)
	}
	for _, r := range []rune{0x10000, 0x1F5FF, 0x1F600, 0x1F620, 0x1F64F, 0x1F650, 0x10FFFE, 0x10FFFF} {
		check(r)
	}

	assert.Assert(t, !tbl.Contains(-1))
	assert.Assert(t, !tbl.Contains(MaxRune+1))
}

func TestTableWordSet(t *testing.T) {
	tbl := Encode(mustParse(t, "[U+0030..U+0039 U+0041..U+005A U+005F U+0061..U+007A]"))

	for r := rune(0); r < 0x200; r++ {
		want := ('0' <= r && r <= '9') || ('A' <= r && r <= 'Z') || r == '_' || ('a' <= r && r <= 'z')
		assert.Equal(t, tbl.Contains(r), want, "rune %U", r)
	}
}

func TestTableUnsorted(t *testing.T) {
	rs := mustParse(t, "[U+0061..U+007A U+0041..U+005A]")
	tbl := Encode(rs)

	assert.DeepEqual(t, tbl.Ranges(), mustParse(t, "[U+0041..U+005A U+0061..U+007A]"))
	// the input is left untouched
	assert.Equal(t, Format(rs), "[U+0061..U+007A U+0041..U+005A]")
}

func TestTableEmpty(t *testing.T) {
	tbl := Encode(nil)

	assert.Equal(t, tbl.Len(), 0)
	assert.Assert(t, !tbl.Contains(0))
	assert.Equal(t, len(tbl.Ranges()), 0)
}

func TestTableRoundTrip(t *testing.T) {
	rs := mustParse(t, "[U+0061..U+007A U+0041..U+005A U+0030..U+0039 U+005F]")
	tbl := Encode(rs)

	assert.DeepEqual(t, tbl.Ranges(), Normalize(rs))
}

// Every range gets its own length, so the length table overflows and later
// ranges must be split into pieces.
func TestTableLengthOverflow(t *testing.T) {
	var rs []Range

	lo := rune(0)
	for l := rune(0); l < 400; l++ {
		rs = append(rs, New(lo, lo+l))
		lo += l + 2
	}

	tbl := Encode(rs)

	assert.Assert(t, len(tbl.lengths) <= maxLengths)
	assert.Assert(t, tbl.Len() > len(rs))
	assert.DeepEqual(t, tbl.Ranges(), Normalize(rs))

	for r := rune(0); r < lo+10; r++ {
		assert.Equal(t, tbl.Contains(r), containsRune(rs, r), "rune %U", r)
	}
}
