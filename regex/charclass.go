package regex

import (
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/magnetde/starlark-jsre/coderange"
)

type rng = coderange.Range

const (
	maxBMP = 0xFFFF

	highStart = 0xD800
	highEnd   = 0xDBFF
	lowStart  = 0xDC00
	lowEnd    = 0xDFFF
)

// Predefined ECMAScript character sets.
var (
	digitSet = []rng{{Lo: '0', Hi: '9'}}

	wordSet = []rng{{Lo: '0', Hi: '9'}, {Lo: 'A', Hi: 'Z'}, {Lo: '_', Hi: '_'}, {Lo: 'a', Hi: 'z'}}

	// wordSetFold is the word set with ignoreCase in unicode mode, where the long s and the
	// kelvin sign fold into word characters.
	wordSetFold = []rng{{Lo: '0', Hi: '9'}, {Lo: 'A', Hi: 'Z'}, {Lo: '_', Hi: '_'}, {Lo: 'a', Hi: 'z'},
		{Lo: 0x017F, Hi: 0x017F}, {Lo: 0x212A, Hi: 0x212A}}

	// spaceSet is the union of WhiteSpace and LineTerminator.
	spaceSet = []rng{
		{Lo: '\t', Hi: '\r'}, {Lo: ' ', Hi: ' '}, {Lo: 0x00A0, Hi: 0x00A0}, {Lo: 0x1680, Hi: 0x1680},
		{Lo: 0x2000, Hi: 0x200A}, {Lo: 0x2028, Hi: 0x2029}, {Lo: 0x202F, Hi: 0x202F},
		{Lo: 0x205F, Hi: 0x205F}, {Lo: 0x3000, Hi: 0x3000}, {Lo: 0xFEFF, Hi: 0xFEFF},
	}

	lineTerminatorSet = []rng{{Lo: '\n', Hi: '\n'}, {Lo: '\r', Hi: '\r'}, {Lo: 0x2028, Hi: 0x2029}}
)

// Fixed target patterns.
const (
	patternNever       = `(?!)`
	patternAnyUnit     = `[\s\S]`
	lineTerminators    = `[\n\r\u2028\u2029]`
	notFollowedByLow   = `(?![\uDC00-\uDFFF])`
	notPrecededByHigh  = `(?<![\uD800-\uDBFF])`
	startOfLine        = `(?:^|(?<=` + lineTerminators + `))`
	endOfLine          = `(?:\z|(?=` + lineTerminators + `))`
	startOfInput       = `^`
	endOfInput         = `\z`
	legacyDot          = `[^\n\r\u2028\u2029]`
	ignoreCaseStart    = `(?i:`
)

// Dots of unicode mode: any code point except line terminators, and any code point.
var (
	unicodeDot    = string(appendCodePointSet(nil, coderange.Invert(lineTerminatorSet, 0, coderange.MaxRune)))
	unicodeDotAll = string(appendCodePointSet(nil, []rng{{Lo: 0, Hi: coderange.MaxRune}}))
)

const hexDigitsUpper = "0123456789ABCDEF"

// appendHex appends the escape sequence `\uXXXX` of a code unit.
func appendHex(b []byte, c rune) []byte {
	return append(b, '\\', 'u',
		hexDigitsUpper[(c>>12)&0xF],
		hexDigitsUpper[(c>>8)&0xF],
		hexDigitsUpper[(c>>4)&0xF],
		hexDigitsUpper[c&0xF])
}

// appendLiteral appends a single code unit outside of a character class.
// Printable ASCII characters are kept, metacharacters of the target syntax are escaped with a
// backslash and all other units are written as `\uXXXX`.
func appendLiteral(b []byte, c rune) []byte {
	switch {
	case c < 0x20 || c > 0x7E:
		return appendHex(b, c)
	case strings.ContainsRune(`\*+?|{}[]()^$.#`, c):
		return append(b, '\\', byte(c))
	default:
		return append(b, byte(c))
	}
}

// appendClassLiteral appends a single code unit inside of a character class.
func appendClassLiteral(b []byte, c rune) []byte {
	switch {
	case c < 0x20 || c > 0x7E:
		return appendHex(b, c)
	case strings.ContainsRune(`\[]^-`, c):
		return append(b, '\\', byte(c))
	default:
		return append(b, byte(c))
	}
}

// appendClassRanges appends the members of a character class without the enclosing brackets.
// All ranges must lie inside the BMP.
func appendClassRanges(b []byte, rs []rng) []byte {
	for _, r := range rs {
		b = appendClassLiteral(b, r.Lo)
		if r.Hi > r.Lo {
			if r.Hi > r.Lo+1 {
				b = append(b, '-')
			}
			b = appendClassLiteral(b, r.Hi)
		}
	}
	return b
}

// appendClass appends a character class containing exactly the given BMP ranges.
// A class with a single member is written as a literal.
func appendClass(b []byte, rs []rng) []byte {
	if len(rs) == 1 && rs[0].Lo == rs[0].Hi {
		return appendLiteral(b, rs[0].Lo)
	}

	b = append(b, '[')
	b = appendClassRanges(b, rs)
	return append(b, ']')
}

// appendCodePointSet appends a pattern matching exactly one code point of the normalized set.
// The input is a sequence of UTF-16 code units, so the set is split into its BMP part, lone high
// surrogates (not followed by a low surrogate), lone low surrogates (not preceded by a high
// surrogate) and surrogate pairs for all astral code points, one alternative per high surrogate.
// An empty set never matches.
func appendCodePointSet(b []byte, rs []rng) []byte {
	var alts [][]byte

	bmp := coderange.Union(coderange.Intersect(rs, 0, highStart-1), coderange.Intersect(rs, lowEnd+1, maxBMP))
	if len(bmp) > 0 {
		alts = append(alts, appendClass(nil, bmp))
	}

	if high := coderange.Intersect(rs, highStart, highEnd); len(high) > 0 {
		a := appendClass(nil, high)
		alts = append(alts, append(a, notFollowedByLow...))
	}

	if low := coderange.Intersect(rs, lowStart, lowEnd); len(low) > 0 {
		a := append([]byte(notPrecededByHigh), appendClass(nil, low)...)
		alts = append(alts, a)
	}

	// A class of high surrogates followed by a class of low surrogates never matches in the target
	// engine, so every high surrogate is written as a literal of its own.
	for _, p := range surrogatePairs(coderange.Intersect(rs, 0x10000, coderange.MaxRune)) {
		for h := p.highs.Lo; h <= p.highs.Hi; h++ {
			a := appendLiteral(nil, h)
			alts = append(alts, appendClass(a, p.lows))
		}
	}

	switch {
	case len(alts) == 0:
		return append(b, patternNever...)
	case len(alts) == 1 && len(bmp) > 0:
		return append(b, alts[0]...)
	}

	b = append(b, "(?:"...)
	for i, a := range alts {
		if i > 0 {
			b = append(b, '|')
		}
		b = append(b, a...)
	}
	return append(b, ')')
}

// pairSet is a set of surrogate pairs: every high surrogate of `highs` combined with every low
// surrogate of `lows`.
type pairSet struct {
	highs rng
	lows  []rng
}

// surrogatePairs converts a normalized set of astral code points into sets of surrogate pairs.
// Consecutive high surrogates with equal sets of low surrogates are grouped together.
func surrogatePairs(rs []rng) []pairSet {
	var pairs []pairSet

	add := func(hlo, hhi rune, lows rng) {
		if n := len(pairs); n > 0 && hlo == hhi {
			last := &pairs[n-1]
			if last.highs.Lo == hlo && last.highs.Hi == hlo {
				last.lows = append(last.lows, lows)
				return
			}
		}

		pairs = append(pairs, pairSet{highs: rng{Lo: hlo, Hi: hhi}, lows: []rng{lows}})
	}

	for _, r := range rs {
		hlo, llo := utf16.EncodeRune(r.Lo)
		hhi, lhi := utf16.EncodeRune(r.Hi)

		if hlo == hhi {
			add(hlo, hlo, rng{Lo: llo, Hi: lhi})
			continue
		}

		add(hlo, hlo, rng{Lo: llo, Hi: lowEnd})
		if hhi-hlo > 1 {
			add(hlo+1, hhi-1, rng{Lo: lowStart, Hi: lowEnd})
		}
		add(hhi, hhi, rng{Lo: lowStart, Hi: lhi})
	}

	// group consecutive high surrogates
	res := pairs[:0]
	for _, p := range pairs {
		if n := len(res); n > 0 && res[n-1].highs.Hi+1 == p.highs.Lo && slices.Equal(res[n-1].lows, p.lows) {
			res[n-1].highs.Hi = p.highs.Hi
			continue
		}
		res = append(res, p)
	}

	return res
}

// classEscapeSet returns the set of a class escape `\d`, `\D`, `\s`, `\S`, `\w` or `\W`.
// Negated sets are inverted inside [0, hi].
func classEscapeSet(c rune, flags Flags, hi rune) []rng {
	var set []rng

	switch c {
	case 'd', 'D':
		set = digitSet
	case 's', 'S':
		set = spaceSet
	case 'w', 'W':
		set = wordSetFor(flags)
	}

	if c == 'D' || c == 'S' || c == 'W' {
		return coderange.Invert(set, 0, hi)
	}

	return slices.Clone(set)
}

// wordSetFor returns the set of word characters.
func wordSetFor(flags Flags) []rng {
	if flags.Has(FlagUnicode | FlagIgnoreCase) {
		return wordSetFold
	}
	return wordSet
}

// wordBoundary returns the emulation of `\b` (or `\B`, if negated) with lookarounds, because the
// word characters of the target engine are not the ECMAScript word characters.
func wordBoundary(flags Flags, negated bool) string {
	w := string(appendClass(nil, wordSetFor(flags)))

	if negated {
		return `(?:(?<=` + w + `)(?=` + w + `)|(?<!` + w + `)(?!` + w + `))`
	}
	return `(?:(?<=` + w + `)(?!` + w + `)|(?<!` + w + `)(?=` + w + `))`
}
