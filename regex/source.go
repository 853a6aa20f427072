package regex

import (
	"strconv"
	"unicode/utf16"

	"github.com/magnetde/starlark-jsre/util"
)

// source represents a reader to read the pattern as a sequence of UTF-16 code units.
// All positions are unit indices. The attributes may only be changed by using its functions.
type source struct {
	units []uint16
	pos   int
	base  int // offset of the pattern in the enclosing source, added to error positions
}

// init initializes the reader.
func (s *source) init(pattern string, base int) {
	s.units = util.UTF16(pattern)
	s.pos = 0
	s.base = base
}

// len returns the number of units of the pattern.
func (s *source) len() int {
	return len(s.units)
}

// tell returns the current read position.
func (s *source) tell() int {
	return s.pos
}

// seek sets the current read position.
func (s *source) seek(pos int) {
	s.pos = pos
}

// eof checks if the whole pattern was read.
func (s *source) eof() bool {
	return s.pos >= len(s.units)
}

// read reads the next code unit.
// If the current read position is at the end of the pattern, then the second return value is false.
func (s *source) read() (rune, bool) {
	if s.eof() {
		return 0, false
	}

	c := rune(s.units[s.pos])
	s.pos++

	return c, true
}

// peek determines the next code unit without moving the read position.
func (s *source) peek() (rune, bool) {
	return s.peekAt(0)
}

// peekAt determines the code unit i units after the read position.
func (s *source) peekAt(i int) (rune, bool) {
	if s.pos+i >= len(s.units) {
		return 0, false
	}
	return rune(s.units[s.pos+i]), true
}

// readCodePoint reads the next code point.
// A surrogate pair is combined into a single code point, lone surrogates are returned as they are.
func (s *source) readCodePoint() (rune, bool) {
	c, ok := s.read()
	if !ok {
		return 0, false
	}

	if util.IsHighSurrogate(c) {
		if l, ok := s.peek(); ok && util.IsLowSurrogate(l) {
			s.pos++
			return utf16.DecodeRune(c, l), true
		}
	}

	return c, true
}

// match returns, whether the next unit matches the given character.
// If it does, the read position is then moved to the next unit.
func (s *source) match(c rune) bool {
	if n, ok := s.peek(); ok && n == c {
		s.pos++
		return true
	}
	return false
}

// nextFunc returns the units at the current read position, where each unit matches the function `fn`.
// At most n units are read; a negative n means no limit.
func (s *source) nextFunc(n int, fn func(c rune) bool) string {
	start := s.pos
	for s.pos < len(s.units) && (n < 0 || s.pos-start < n) && fn(rune(s.units[s.pos])) {
		s.pos++
	}

	b := make([]byte, s.pos-start)
	for i := range b {
		b[i] = byte(s.units[start+i])
	}
	return string(b)
}

// nextDecimal returns the decimal digits at the current read position.
func (s *source) nextDecimal() string {
	return s.nextFunc(-1, isDigit)
}

// nextHex returns the hexadecimal digits at the current read position, with a maximum length of n.
func (s *source) nextHex(n int) string {
	return s.nextFunc(n, isHexDigit)
}

// hexValue reads exactly n hexadecimal digits and returns their value.
// If less digits exist, the read position is unchanged and the second return value is false.
func (s *source) hexValue(n int) (rune, bool) {
	start := s.pos

	h := s.nextHex(n)
	if len(h) != n {
		s.seek(start)
		return 0, false
	}

	v, _ := strconv.ParseUint(h, 16, 32)
	return rune(v), true
}

// unicodeEscape parses the remainder of a `\u` escape sequence, after the `u` was read.
// If `unicodeMode` is set, the brace form `\u{...}` is accepted and a pair of escaped surrogates
// `\uXXXX\uXXXX` is combined into a single code point.
// If the escape is invalid, the read position is unchanged and the second return value is false.
func (s *source) unicodeEscape(unicodeMode bool) (rune, bool) {
	start := s.pos

	if unicodeMode && s.match('{') {
		h := s.nextHex(-1)
		v, err := strconv.ParseUint(h, 16, 32)
		if h == "" || err != nil || v > 0x10FFFF || !s.match('}') {
			s.seek(start)
			return 0, false
		}

		return rune(v), true
	}

	c, ok := s.hexValue(4)
	if !ok {
		return 0, false
	}

	if unicodeMode && util.IsHighSurrogate(c) {
		save := s.pos
		if s.match('\\') && s.match('u') {
			if l, ok := s.hexValue(4); ok && util.IsLowSurrogate(l) {
				return utf16.DecodeRune(c, l), true
			}
		}
		s.seek(save)
	}

	return c, true
}

// errorp returns a new syntax error at the given position of the pattern.
func (s *source) errorp(msg string, pos int) error {
	return newSyntaxError(msg, s.base+pos)
}

// errorh is equivalent to errorp for the current position.
func (s *source) errorh(msg string) error {
	return s.errorp(msg, s.pos)
}

// conversionp returns a new conversion error at the given position of the pattern.
func (s *source) conversionp(msg string, pos int) error {
	return newConversionError(msg, s.base+pos)
}
