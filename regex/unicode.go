package regex

import (
	"unicode/utf16"

	"github.com/magnetde/starlark-jsre/coderange"
	"github.com/magnetde/starlark-jsre/util"
)

// unicodeMode rewrites patterns with the unicode flag.
// Characters are code points, while the input is still a sequence of UTF-16 code units. Classes
// are collected as code point ranges and written with explicit surrogate pairs once they are closed.
type unicodeMode struct{}

func (unicodeMode) nextChar(c *context) rune {
	ch, _ := c.src.readCodePoint()
	return ch
}

// processChar writes a code point. Astral code points become a surrogate pair, lone surrogates
// must not match a part of a pair.
func (unicodeMode) processChar(c *context, ch rune) {
	if rs, ok := c.foldChar(ch); ok {
		c.out = appendCodePointSet(c.out, rs)
		return
	}

	switch {
	case ch > maxBMP:
		h, l := utf16.EncodeRune(ch)
		c.out = append(c.out, "(?:"...)
		c.out = appendHex(c.out, h)
		c.out = appendHex(c.out, l)
		c.out = append(c.out, ')')
	case util.IsHighSurrogate(ch):
		c.out = append(c.out, "(?:"...)
		c.out = appendHex(c.out, ch)
		c.out = append(c.out, notFollowedByLow...)
		c.out = append(c.out, ')')
	case util.IsLowSurrogate(ch):
		c.out = append(c.out, "(?:"+notPrecededByHigh...)
		c.out = appendHex(c.out, ch)
		c.out = append(c.out, ')')
	default:
		c.out = appendLiteral(c.out, ch)
	}
}

func (unicodeMode) beginSet(c *context) {}

func (unicodeMode) processSetChar(c *context, ch rune) {
	c.ranges = append(c.ranges, coderange.Single(ch))
}

func (unicodeMode) processSetRange(c *context, lo, hi rune) {
	c.ranges = append(c.ranges, coderange.New(lo, hi))
}

func (unicodeMode) processClassEscape(c *context, set []rng, inClass bool) {
	if inClass {
		c.ranges = append(c.ranges, set...)
	} else {
		c.out = appendCodePointSet(c.out, c.fold(set))
	}
}

// rewriteSet normalizes the collected ranges and writes them.
// With ignoreCase, the set is closed under case folding before a negated class is inverted.
func (unicodeMode) rewriteSet(c *context) {
	rs := c.fold(coderange.Normalize(c.ranges))
	if c.negated {
		rs = coderange.Invert(rs, 0, coderange.MaxRune)
	}

	c.out = appendCodePointSet(c.out, rs)
}

func (unicodeMode) rewriteDot(c *context) {
	if c.flags.Has(FlagDotAll) {
		c.out = append(c.out, unicodeDotAll...)
	} else {
		c.out = append(c.out, unicodeDot...)
	}
}

func (unicodeMode) allowsQuantifierAfterGroup(k groupKind) bool {
	return !k.isLookahead() && !k.isLookbehind()
}

func (unicodeMode) handleInvalidRangeQuantifier(c *context, pos int) error {
	return c.src.errorp("incomplete quantifier", pos)
}

// adjustEscape only allows syntax characters, `/` and (inside of a class) `-` as identity escapes.
func (unicodeMode) adjustEscape(c *context, pos int, ch rune) (rune, error) {
	if isSyntaxChar(ch) || ch == '/' || (c.inClass && ch == '-') {
		return ch, nil
	}

	if c.inClass {
		return 0, c.src.errorp("invalid class escape", pos)
	}
	return 0, c.src.errorp("invalid escape", pos)
}

func (unicodeMode) domain() rune {
	return coderange.MaxRune
}
