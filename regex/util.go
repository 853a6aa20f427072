package regex

import (
	"strings"
)

// isASCIILetter checks if a given character is an ASCII letter.
func isASCIILetter(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// isDigit checks if the given character is a decimal digit.
func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isOctDigit checks if the given character is an octal digit.
func isOctDigit(c rune) bool {
	return '0' <= c && c <= '7'
}

// isHexDigit checks if the given character is a hexadecimal digit.
func isHexDigit(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// toDigit returns the corresponding integer value of a character.
// The character must be a digit in the set "0123456789".
func toDigit(c rune) int {
	return int(c) - '0'
}

// isSyntaxChar checks if the character is an ECMAScript syntax character,
// which may always be escaped with a backslash.
func isSyntaxChar(c rune) bool {
	return c < 0x80 && strings.ContainsRune(`^$\.*+?()[]{}|`, c)
}

// compareDecimal compares two strings of decimal digits by their numeric value.
// Both numbers may have leading zeros and may be arbitrarily large.
func compareDecimal(a, b string) int {
	a = trimZeros(a)
	b = trimZeros(b)

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return +1
	}

	return strings.Compare(a, b)
}

// trimZeros removes the leading zeros of a decimal number.
// The number zero is returned as "0".
func trimZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}
