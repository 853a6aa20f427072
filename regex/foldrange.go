package regex

import (
	"unicode"
	"unicode/utf8"

	"github.com/magnetde/starlark-jsre/coderange"
)

// Bounds of the code points, that have case variants.
const (
	minFold = 0x0041
	maxFold = 0x1E943
)

// caseClosure returns the set of all characters, that are equal to a character of rs when
// ignoring case. In unicode mode, characters are equal, if they have the same simple case folding.
// Otherwise, characters are equal, if they have the same canonical uppercase form.
// The result contains no character greater than limit.
// See also `appendFoldedRange` of package `regexp/syntax`.
func caseClosure(rs []rng, unicodeMode bool, limit rune) []rng {
	r := make([]rng, 0, len(rs))

	for _, cr := range rs {
		r = appendRange(r, cr.Lo, cr.Hi)

		lo, hi := max(cr.Lo, minFold), min(cr.Hi, maxFold)

		// Brute force. Depend on appendRange to coalesce ranges on the fly.
		for c := lo; c <= hi; c++ {
			for f := unicode.SimpleFold(c); f != c; f = unicode.SimpleFold(f) {
				if unicodeMode || canonicalize(f) == canonicalize(c) {
					r = appendRange(r, f, f)
				}
			}
		}
	}

	return coderange.Intersect(coderange.Normalize(r), 0, limit)
}

// canonicalize returns the uppercase form of a character, that is used to compare characters
// without the unicode flag. A non-ASCII character never maps to an ASCII character.
func canonicalize(c rune) rune {
	u := unicode.ToUpper(c)
	if c >= utf8.RuneSelf && u < utf8.RuneSelf {
		return c
	}
	return u
}

// appendRange returns the result of appending the range lo-hi to r.
// Adapted from module regexp/syntax.
func appendRange(r []rng, lo, hi rune) []rng {
	// Expand last range or next to last range if it overlaps or abuts.
	// Checking two ranges helps when appending case-folded
	// alphabets, so that one range can be expanding A-Z and the
	// other expanding a-z.
	n := len(r)
	for i := 1; i <= 2; i++ {
		if n >= i {
			p := &r[n-i]
			if lo <= p.Hi+1 && p.Lo <= hi+1 {
				p.Lo = min(p.Lo, lo)
				p.Hi = max(p.Hi, hi)
				return r
			}
		}
	}

	return append(r, rng{Lo: lo, Hi: hi})
}

// fold returns the case closure of rs, if the pattern ignores case.
func (c *context) fold(rs []rng) []rng {
	if !c.flags.Has(FlagIgnoreCase) {
		return rs
	}
	return caseClosure(rs, c.flags.Has(FlagUnicode), c.mode.domain())
}

// foldChar returns the case closure of a single character. If the pattern does not ignore case or
// the character has no case variants, the second return value is false.
func (c *context) foldChar(ch rune) ([]rng, bool) {
	if !c.flags.Has(FlagIgnoreCase) || ch < minFold || ch > maxFold {
		return nil, false
	}

	rs := c.fold([]rng{{Lo: ch, Hi: ch}})
	return rs, len(rs) > 1 || rs[0].Lo != rs[0].Hi
}
