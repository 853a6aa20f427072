// Package coderange implements sets of Unicode code points represented as
// sorted lists of inclusive ranges, together with a compact encoded table for
// binary searched membership tests and a cache of general category sets.
package coderange

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MaxRune is the largest valid code point.
const MaxRune = 0x10FFFF

// Range is an inclusive range of code points.
// Ranges are values and must always satisfy 0 <= Lo <= Hi <= MaxRune.
type Range struct {
	Lo rune
	Hi rune
}

// New creates a new range from lo to hi.
// An invalid range is a programming error, so New panics instead of returning an error.
func New(lo, hi rune) Range {
	if lo < 0 || hi > MaxRune || lo > hi {
		panic(fmt.Sprintf("coderange: invalid range [%#x, %#x]", lo, hi))
	}

	return Range{Lo: lo, Hi: hi}
}

// Single creates a range containing only the code point r.
func Single(r rune) Range {
	return New(r, r)
}

// Contains reports whether r lies inside the range.
func (r Range) Contains(c rune) bool {
	return r.Lo <= c && c <= r.Hi
}

// Len returns the number of code points in the range.
func (r Range) Len() int {
	return int(r.Hi-r.Lo) + 1
}

func (r Range) String() string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("U+%04X", r.Lo)
	}
	return fmt.Sprintf("U+%04X..U+%04X", r.Lo, r.Hi)
}

// Normalize sorts the ranges by their start and merges all overlapping or adjacent ranges.
// The result is the minimal ordered representation of the same set.
// The input slice is reused for the result.
func Normalize(rs []Range) []Range {
	if len(rs) < 2 {
		return rs
	}

	slices.SortFunc(rs, func(a, b Range) int {
		if a.Lo != b.Lo {
			return int(a.Lo - b.Lo)
		}
		return int(b.Hi - a.Hi)
	})

	// Merge abutting, overlapping.
	w := 1
	for i := 1; i < len(rs); i++ {
		cur := &rs[w-1]
		next := rs[i]

		if next.Lo <= cur.Hi+1 {
			if next.Hi > cur.Hi {
				cur.Hi = next.Hi
			}
			continue
		}

		rs[w] = next
		w++
	}

	return rs[:w]
}

// IsNormalized reports whether the ranges are sorted, disjoint and non-adjacent.
func IsNormalized(rs []Range) bool {
	for i := 1; i < len(rs); i++ {
		if rs[i].Lo <= rs[i-1].Hi+1 {
			return false
		}
	}

	return true
}

// Invert returns the complement of the normalized set rs within [lo, hi].
// The result is normalized by construction.
func Invert(rs []Range, lo, hi rune) []Range {
	var res []Range

	next := lo
	for _, r := range rs {
		if r.Hi < lo {
			continue
		}
		if r.Lo > hi {
			break
		}

		if r.Lo > next {
			res = append(res, New(next, r.Lo-1))
		}
		if r.Hi >= hi {
			return res
		}

		next = max(next, r.Hi+1)
	}

	if next <= hi {
		res = append(res, New(next, hi))
	}

	return res
}

// Intersect clips the normalized set rs to the window [lo, hi].
func Intersect(rs []Range, lo, hi rune) []Range {
	var res []Range

	for _, r := range rs {
		if r.Hi < lo || r.Lo > hi {
			continue
		}

		res = append(res, New(max(r.Lo, lo), min(r.Hi, hi)))
	}

	return res
}

// Union returns the normalized union of all given sets.
func Union(sets ...[]Range) []Range {
	n := 0
	for _, s := range sets {
		n += len(s)
	}

	res := make([]Range, 0, n)
	for _, s := range sets {
		res = append(res, s...)
	}

	return Normalize(res)
}

// Format returns a readable representation of the set, e.g. "[U+0030..U+0039 U+005F]".
func Format(rs []Range) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range rs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Parse parses a set from its Format representation.
// Code points may be written with or without the "U+" prefix.
func Parse(s string) ([]Range, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")

	var res []Range
	for _, f := range strings.Fields(s) {
		lo, hi, found := strings.Cut(f, "..")

		l, err := parseCodePoint(lo)
		if err != nil {
			return nil, err
		}

		h := l
		if found {
			h, err = parseCodePoint(hi)
			if err != nil {
				return nil, err
			}
		}

		if l > h || h > MaxRune {
			return nil, fmt.Errorf("invalid range %s", f)
		}

		res = append(res, New(l, h))
	}

	return res, nil
}

func parseCodePoint(s string) (rune, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "U+"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid code point %q", s)
	}
	return rune(v), nil
}
