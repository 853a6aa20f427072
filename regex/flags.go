package regex

import "strings"

// Flags is the set of flags of an ECMAScript regular expression literal.
type Flags uint8

// Possible flags of a regular expression.
// The order of the bits is the canonical order of the flag characters.
const (
	FlagHasIndices  Flags = 1 << iota // d
	FlagGlobal                        // g
	FlagIgnoreCase                    // i
	FlagMultiline                     // m
	FlagDotAll                        // s
	FlagUnicode                       // u
	FlagUnicodeSets                   // v
	FlagSticky                        // y
)

// flagChars contains the flag characters in canonical order.
const flagChars = "dgimsuvy"

// getFlag converts a flag character to its corresponding flag.
// If the character is not a valid flag, the function returns 0.
func getFlag(c rune) Flags {
	if i := strings.IndexRune(flagChars, c); i >= 0 {
		return 1 << i
	}
	return 0
}

// ParseFlags parses the flags of a regular expression literal.
// An unknown flag character, a repeated flag or the combination of the flags `u` and `v`
// result in a SyntaxError. The error is always positioned at `offset`, which is the start of the
// flags in the enclosing source.
func ParseFlags(s string, offset int) (Flags, error) {
	var flags Flags

	for _, c := range s {
		f := getFlag(c)
		if f == 0 || flags&f != 0 {
			return 0, newSyntaxError("invalid regular expression flags", offset)
		}

		flags |= f
	}

	if flags.Has(FlagUnicode | FlagUnicodeSets) {
		return 0, newSyntaxError("invalid regular expression flags", offset)
	}

	return flags, nil
}

// Has checks if all of the given flags are set.
func (f Flags) Has(flags Flags) bool {
	return f&flags == flags
}

// String returns the flag characters in canonical order.
func (f Flags) String() string {
	var b strings.Builder
	for i := 0; i < len(flagChars); i++ {
		if f&(1<<i) != 0 {
			b.WriteByte(flagChars[i])
		}
	}
	return b.String()
}
