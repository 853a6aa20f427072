package util

import "strings"

// Literal returns the regular expression literal `/source/flags`.
// Unescaped slashes outside of character classes and line terminators in source are escaped, so
// that the literal can be parsed again. An empty source is written as `(?:)`.
func Literal(source, flags string) string {
	var b strings.Builder
	b.Grow(len(source) + len(flags) + 2)

	b.WriteByte('/')
	b.WriteString(EscapeSource(source))
	b.WriteByte('/')
	b.WriteString(flags)

	return b.String()
}

// EscapeSource escapes the pattern source like the `source` property of a RegExp object.
func EscapeSource(source string) string {
	if source == "" {
		return "(?:)"
	}

	var b strings.Builder
	b.Grow(len(source))

	inClass := false
	escaped := false

	for _, c := range source {
		if escaped {
			escaped = false
			writeTerminator(&b, c, true)
			continue
		}

		switch {
		case c == '\\':
			escaped = true
			b.WriteByte('\\')
		case c == '/' && !inClass:
			b.WriteString(`\/`)
		case c == '[':
			inClass = true
			b.WriteByte('[')
		case c == ']':
			inClass = false
			b.WriteByte(']')
		default:
			writeTerminator(&b, c, false)
		}
	}

	return b.String()
}

// writeTerminator writes c and replaces line terminators by their escape sequence.
// If the preceding backslash was already written, only the escape letter is added.
func writeTerminator(b *strings.Builder, c rune, afterBackslash bool) {
	var esc string
	switch c {
	case '\n':
		esc = "n"
	case '\r':
		esc = "r"
	case 0x2028:
		esc = "u2028"
	case 0x2029:
		esc = "u2029"
	default:
		b.WriteRune(c)
		return
	}

	if !afterBackslash {
		b.WriteByte('\\')
	}
	b.WriteString(esc)
}
