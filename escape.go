package jsre

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/magnetde/starlark-jsre/util"
)

// specialBytes contains 16 * 8 = 128 bits, where each bit represents one byte value.
// If the i-th bit is 1, the i-th byte is a syntax character, that is escaped with a backslash.
// This array represents the following bytes: "^$\\.*+?()[]{}|/".
var specialBytes = [16]byte{
	0x00, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00,
	0x04, 0x04, 0x04, 0xa4, 0xa0, 0xa0, 0x24, 0x0c,
}

// special reports whether byte b is a syntax character.
func special(b byte) bool {
	return b < utf8.RuneSelf && specialBytes[b%16]&(1<<(b/16)) != 0
}

// otherPunctuators are escaped as hexadecimal escapes, because they have a meaning in character
// classes of the `v` mode or in the surrounding source.
const otherPunctuators = ",-=<>#&!%:;@~'`\""

// escapePattern returns a pattern that matches the string literally, like `RegExp.escape`:
//   - an initial digit or ASCII letter is written as `\xHH`, so that the result can follow
//     an escape or a backreference,
//   - syntax characters and `/` are escaped with a backslash,
//   - other ASCII punctuators, white space, line terminators and lone surrogates are written as
//     hexadecimal or unicode escapes.
func escapePattern(s string) string {
	var b []byte

	for i, c := range util.CodePoints(s) {
		switch {
		case i == 0 && (('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')):
			b = append(b, `\x`...)
			b = util.AppendHex(b, c, 2)
		case c < utf8.RuneSelf && special(byte(c)):
			b = append(b, '\\', byte(c))
		case c < utf8.RuneSelf && strings.ContainsRune(otherPunctuators, c):
			b = append(b, `\x`...)
			b = util.AppendHex(b, c, 2)
		default:
			b = appendEscapedCodePoint(b, c)
		}
	}

	return string(b)
}

// appendEscapedCodePoint appends the code point and escapes white space, line terminators and
// surrogates.
func appendEscapedCodePoint(b []byte, c rune) []byte {
	switch c {
	case '\t':
		return append(b, `\t`...)
	case '\n':
		return append(b, `\n`...)
	case '\v':
		return append(b, `\v`...)
	case '\f':
		return append(b, `\f`...)
	case '\r':
		return append(b, `\r`...)
	}

	isSpace := c == 0xFEFF || c == 0x2028 || c == 0x2029 || unicode.Is(unicode.Zs, c)
	isSurrogate := util.IsHighSurrogate(c) || util.IsLowSurrogate(c)

	switch {
	case !isSpace && !isSurrogate:
		return utf8.AppendRune(b, c)
	case c <= 0xFF:
		b = append(b, `\x`...)
		return util.AppendHex(b, c, 2)
	default:
		b = append(b, `\u`...)
		return util.AppendHex(b, c, 4)
	}
}
