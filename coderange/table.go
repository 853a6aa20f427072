package coderange

import (
	"slices"
)

const (
	lengthBits = 8
	maxLengths = 1 << lengthBits
	lengthMask = maxLengths - 1
)

// Table is a read-only, encoded representation of a normalized set of ranges.
// Every entry packs the start of a range into the high bits and an index into
// the table of range lengths into the low 8 bits, so membership can be tested
// with a binary search over a flat integer slice.
type Table struct {
	entries []int64
	lengths []rune // lengths[i] is Hi-Lo of the ranges referencing index i
}

// Encode builds a table from a set of ranges. Ranges, that are not normalized, are normalized
// on a copy first.
// Lengths are deduplicated; once all 256 length slots are taken, ranges with a
// new length are split into pieces using the lengths already present.
func Encode(rs []Range) *Table {
	if !IsNormalized(rs) {
		rs = Normalize(slices.Clone(rs))
	}

	t := &Table{
		lengths: []rune{0},
	}
	index := map[rune]int{0: 0}

	for _, r := range rs {
		lo := r.Lo
		for lo <= r.Hi {
			l := r.Hi - lo

			i, ok := index[l]
			if !ok {
				if len(t.lengths) < maxLengths {
					i = len(t.lengths)
					t.lengths = append(t.lengths, l)
					index[l] = i
				} else {
					i = t.largestLength(l)
					l = t.lengths[i]
				}
			}

			t.entries = append(t.entries, int64(lo)<<lengthBits|int64(i))
			lo += l + 1
		}
	}

	return t
}

// largestLength returns the index of the largest known length not above l.
// The length 0 is always present, so a result always exists.
func (t *Table) largestLength(l rune) int {
	best := 0
	for i, v := range t.lengths {
		if v <= l && v > t.lengths[best] {
			best = i
		}
	}
	return best
}

// Len returns the number of encoded entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// decode returns the range of the i-th entry.
func (t *Table) decode(i int) Range {
	e := t.entries[i]
	lo := rune(e >> lengthBits)
	return Range{Lo: lo, Hi: lo + t.lengths[e&lengthMask]}
}

// Contains reports whether the code point r is a member of the table.
// It searches the greatest entry whose start is not above r, checks its range,
// and then checks the preceding entry.
func (t *Table) Contains(r rune) bool {
	if r < 0 || r > MaxRune {
		return false
	}

	key := int64(r)<<lengthBits | lengthMask

	i, found := slices.BinarySearch(t.entries, key)
	if !found {
		i-- // greatest entry <= key
	}
	if i < 0 {
		return false
	}

	if t.decode(i).Contains(r) {
		return true
	}

	return i > 0 && t.decode(i-1).Contains(r)
}

// Ranges decodes the table back into a normalized list of ranges.
func (t *Table) Ranges() []Range {
	res := make([]Range, 0, len(t.entries))
	for i := range t.entries {
		res = append(res, t.decode(i))
	}
	return Normalize(res)
}
