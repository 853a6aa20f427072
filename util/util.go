package util

import "unicode/utf8"

const hexDigits = "0123456789abcdef"

// IsASCIIString checks if s only contains ASCII characters.
func IsASCIIString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// AppendHex appends the lowercase hexadecimal representation of c with n digits.
func AppendHex(b []byte, c rune, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		b = append(b, hexDigits[(c>>(4*i))&0xF])
	}
	return b
}

// CodePoints decodes s into code points. Surrogate pairs are combined and lone surrogates, that
// were encoded as WTF-8, are returned as surrogate code points.
func CodePoints(s string) []rune {
	units := UTF16(s)
	cps := make([]rune, 0, len(units))

	for i := 0; i < len(units); i++ {
		u := rune(units[i])
		if IsHighSurrogate(u) && i+1 < len(units) && IsLowSurrogate(rune(units[i+1])) {
			u = 0x10000 + (u-surrHighStart)<<10 + rune(units[i+1]) - surrLowStart
			i++
		}
		cps = append(cps, u)
	}

	return cps
}
