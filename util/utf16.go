package util

import (
	"unicode/utf16"
	"unicode/utf8"
)

const (
	surrHighStart = 0xD800
	surrLowStart  = 0xDC00
	surrEnd       = 0xE000
)

// IsHighSurrogate checks if the code unit is a leading surrogate.
func IsHighSurrogate(u rune) bool {
	return surrHighStart <= u && u < surrLowStart
}

// IsLowSurrogate checks if the code unit is a trailing surrogate.
func IsLowSurrogate(u rune) bool {
	return surrLowStart <= u && u < surrEnd
}

// decodeUnit decodes the next character of s.
// In addition to valid UTF-8, encoded surrogates (as produced by WTF-8) are decoded into a
// single surrogate code point. Every other invalid byte is decoded as utf8.RuneError with size 1.
func decodeUnit(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r != utf8.RuneError || size != 1 {
		return r, size
	}

	// 0xED 0xA0..0xBF 0x80..0xBF
	if len(s) >= 3 && s[0] == 0xED && s[1]&0xE0 == 0xA0 && s[2]&0xC0 == 0x80 {
		return 0xD000 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F), 3
	}

	return utf8.RuneError, 1
}

// UTF16 converts s into a sequence of UTF-16 code units.
// Lone surrogates encoded as WTF-8 become a single unit.
func UTF16(s string) []uint16 {
	units := make([]uint16, 0, len(s))

	for len(s) > 0 {
		r, size := decodeUnit(s)
		if IsHighSurrogate(r) || IsLowSurrogate(r) {
			// utf16.AppendRune replaces surrogate code points with U+FFFD
			units = append(units, uint16(r))
		} else {
			units = utf16.AppendRune(units, r)
		}
		s = s[size:]
	}

	return units
}

// UTF16Len returns the number of UTF-16 code units of s.
func UTF16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := decodeUnit(s)
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
		s = s[size:]
	}
	return n
}

// UTF16Offsets converts s into UTF-16 code units widened to runes.
// The second return value maps each unit index to the byte offset of the character containing
// the unit and has one additional entry for len(s). The third return value maps each byte
// offset to the index of the first unit of the character containing the byte, again with an
// additional entry for len(s).
// If s only contains ASCII characters, both offset slices are nil.
func UTF16Offsets(s string) ([]rune, []int, []int) {
	if IsASCIIString(s) {
		return []rune(s), nil, nil
	}

	units := make([]rune, 0, len(s))
	toByte := make([]int, 0, len(s)+1)
	toUnit := make([]int, 0, len(s)+1)

	off := 0
	for len(s) > 0 {
		r, size := decodeUnit(s)

		for i := 0; i < size; i++ {
			toUnit = append(toUnit, len(units))
		}

		if r > 0xFFFF {
			h, l := utf16.EncodeRune(r)
			units = append(units, h, l)
			toByte = append(toByte, off, off)
		} else {
			units = append(units, r)
			toByte = append(toByte, off)
		}

		off += size
		s = s[size:]
	}

	toByte = append(toByte, off)
	toUnit = append(toUnit, len(units))

	return units, toByte, toUnit
}

// FromUTF16 converts a sequence of UTF-16 code units back into a string.
// Surrogate pairs are combined, lone surrogates are encoded as WTF-8,
// so that UTF16(FromUTF16(u)) returns the units unchanged.
func FromUTF16(units []rune) string {
	b := make([]byte, 0, len(units))

	for i := 0; i < len(units); i++ {
		u := units[i]

		if IsHighSurrogate(u) && i+1 < len(units) && IsLowSurrogate(units[i+1]) {
			b = utf8.AppendRune(b, utf16.DecodeRune(u, units[i+1]))
			i++
		} else if IsHighSurrogate(u) || IsLowSurrogate(u) {
			b = append(b, 0xED, byte(0x80|(u>>6)&0x3F), byte(0x80|u&0x3F))
		} else {
			b = utf8.AppendRune(b, u)
		}
	}

	return string(b)
}
