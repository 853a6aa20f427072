package regex

import (
	"unicode"

	"github.com/magnetde/starlark-jsre/util"
)

// isIDStart checks if the code point may start a group name.
// See also: https://tc39.es/ecma262/#prod-RegExpIdentifierStart
func isIDStart(c rune) bool {
	if c == '$' || c == '_' {
		return true
	}

	return unicode.In(c, unicode.L, unicode.Nl, unicode.Other_ID_Start) &&
		!unicode.In(c, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

// isIDContinue checks if the code point may be part of a group name.
func isIDContinue(c rune) bool {
	if c == '$' || c == '\u200C' || c == '\u200D' || isIDStart(c) {
		return true
	}

	return unicode.In(c, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue) &&
		!unicode.In(c, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

// groupName reads a group name, after the opening `<` was read, including the closing `>`.
// Each character of the name can also be written as unicode escape, surrogate pairs are combined in
// both modes. If the name is not a valid identifier, the second return value is false.
func (s *source) groupName() (string, bool) {
	var name []rune

	for {
		c, ok := s.read()
		if !ok {
			return "", false
		}
		if c == '>' {
			break
		}

		if c == '\\' {
			if !s.match('u') {
				return "", false
			}
			if c, ok = s.unicodeEscape(true); !ok {
				return "", false
			}
		} else if util.IsHighSurrogate(c) {
			s.seek(s.tell() - 1)
			c, _ = s.readCodePoint()
		}

		if len(name) == 0 {
			ok = isIDStart(c)
		} else {
			ok = isIDContinue(c)
		}
		if !ok {
			return "", false
		}

		name = append(name, c)
	}

	if len(name) == 0 {
		return "", false
	}

	return string(name), true
}
