package regex

import (
	"fmt"
	"strconv"

	"github.com/magnetde/starlark-jsre/coderange"
)

// escapeKind is the kind of a parsed escape sequence.
type escapeKind uint8

const (
	escapeChar escapeKind = iota // a single character
	escapeSet                    // a class escape or property escape
	escapeDone                   // already written, like assertions and backreferences
)

// escape is a parsed escape sequence.
type escape struct {
	kind escapeKind
	ch   rune
	set  []rng
}

func charEscape(ch rune) (escape, error) {
	return escape{kind: escapeChar, ch: ch}, nil
}

// parseEscape parses the escape sequence, whose backslash at pos was just read.
// Both modes share the list of escapes; they differ in how invalid escapes are handled.
func (c *context) parseEscape(pos int) (escape, error) {
	ch, _ := c.src.read() // the structural pass ensures, that the backslash is not the last unit
	uni := c.flags.Has(FlagUnicode)

	switch ch {
	case 'd', 'D', 's', 'S', 'w', 'W':
		return escape{kind: escapeSet, set: classEscapeSet(ch, c.flags, c.mode.domain())}, nil
	case 'p', 'P':
		if uni {
			return c.propertyEscape(pos, ch == 'P')
		}
	case 'b', 'B':
		if c.inClass {
			if ch == 'b' {
				return charEscape('\b')
			}
			break
		}

		c.out = append(c.out, wordBoundary(c.flags, ch == 'B')...)
		c.canRepeat = false
		return escape{kind: escapeDone}, nil
	case 'f':
		return charEscape('\f')
	case 'n':
		return charEscape('\n')
	case 'r':
		return charEscape('\r')
	case 't':
		return charEscape('\t')
	case 'v':
		return charEscape('\v')
	case 'c':
		if l, ok := c.src.peek(); ok && (isASCIILetter(l) || (c.inClass && !uni && (isDigit(l) || l == '_'))) {
			c.src.read()
			return charEscape(l % 32)
		}
		if uni {
			return escape{}, c.src.errorp("invalid escape", pos)
		}

		// the backslash is a literal and `c` is read again
		c.src.seek(pos + 1)
		return charEscape('\\')
	case '0':
		if n, ok := c.src.peek(); !ok || !isDigit(n) {
			return charEscape(0)
		}
		if uni {
			return escape{}, c.src.errorp("invalid decimal escape", pos)
		}

		c.src.seek(pos + 1)
		return charEscape(c.legacyOctal())
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return c.decimalEscape(pos)
	case 'k':
		if uni || c.st.hasNames() {
			return c.namedReference(pos)
		}
	case 'u':
		if v, ok := c.src.unicodeEscape(uni); ok {
			return charEscape(v)
		}
		if uni {
			return escape{}, c.src.errorp("invalid unicode escape", pos)
		}
	case 'x':
		if v, ok := c.src.hexValue(2); ok {
			return charEscape(v)
		}
		if uni {
			return escape{}, c.src.errorp("invalid hexadecimal escape", pos)
		}
	}

	v, err := c.mode.adjustEscape(c, pos, ch)
	if err != nil {
		return escape{}, err
	}
	return charEscape(v)
}

// legacyOctal reads a legacy octal escape sequence, whose first digit is at the read position.
// The value is at most 0377.
func (c *context) legacyOctal() rune {
	d, _ := c.src.read()
	v := rune(toDigit(d))

	if n, ok := c.src.peek(); ok && isOctDigit(n) {
		c.src.read()
		v = v*8 + rune(toDigit(n))

		if n, ok := c.src.peek(); ok && isOctDigit(n) && d <= '3' {
			c.src.read()
			v = v*8 + rune(toDigit(n))
		}
	}

	return v
}

// decimalEscape parses `\N`, whose first digit was just read.
// If N is the number of a group, that starts before the escape, it is a backreference.
// Otherwise legacy mode reads it as octal escape (or `\8`, `\9` as identity escapes).
func (c *context) decimalEscape(pos int) (escape, error) {
	start := pos + 1
	c.src.seek(start)
	digits := c.src.nextDecimal()

	if !c.inClass && compareDecimal(digits, strconv.Itoa(len(c.st.groups))) <= 0 {
		n, _ := strconv.Atoi(digits)
		g := c.st.groups[n-1]

		if g.Start >= c.src.base+pos {
			return escape{}, c.src.conversionp(fmt.Sprintf("forward reference to group %d", n), pos)
		}

		c.writeBackref(g)
		return escape{kind: escapeDone}, nil
	}

	if c.flags.Has(FlagUnicode) {
		if c.inClass {
			return escape{}, c.src.errorp("invalid class escape", pos)
		}
		return escape{}, c.src.errorp("invalid escape", pos)
	}

	c.src.seek(start)
	if d, _ := c.src.peek(); d >= '8' {
		c.src.read()
		return charEscape(d)
	}

	return charEscape(c.legacyOctal())
}

// namedReference parses `\k<name>`, after the `k` was read.
func (c *context) namedReference(pos int) (escape, error) {
	if c.inClass || !c.src.match('<') {
		return escape{}, c.src.errorp("invalid named reference", pos)
	}

	name, ok := c.src.groupName()
	if !ok {
		return escape{}, c.src.errorp("invalid named reference", pos)
	}
	if c.st.names[name] == 0 {
		return escape{}, c.src.errorp("invalid named capture referenced", pos)
	}

	for _, g := range c.st.groups {
		if g.Name == name && g.Start < c.src.base+pos {
			c.writeBackref(g)
			return escape{kind: escapeDone}, nil
		}
	}

	return escape{}, c.src.conversionp(fmt.Sprintf("forward reference to group %q", name), pos)
}

// writeBackref writes a backreference to the group.
// In ECMAScript, a reference to a group without a capture matches the empty string, while the
// target engine fails; the conditional falls back to an empty match.
func (c *context) writeBackref(g CaptureGroup) {
	target := g.TargetName
	if target == "" {
		target = strconv.Itoa(c.unnamedNumber(g.Index))
	}

	ref := `\k<` + target + ">"
	if c.flags.Has(FlagIgnoreCase) {
		ref = ignoreCaseStart + ref + ")"
	}

	c.beginAtom()
	c.out = append(c.out, "(?("+target+")"+ref+"|)"...)
}

// unnamedNumber returns the number of an unnamed group in the target pattern.
// The target engine numbers unnamed groups first, so it is the number of unnamed groups up to
// and including the group with the given index.
func (c *context) unnamedNumber(index int) int {
	n := 0
	for _, g := range c.st.groups[:index] {
		if g.Name == "" {
			n++
		}
	}
	return n
}

// propertyEscape parses `\p{...}` or `\P{...}`, after the `p` or `P` was read.
func (c *context) propertyEscape(pos int, negated bool) (escape, error) {
	if !c.src.match('{') {
		return escape{}, c.src.errorp("invalid property name", pos)
	}

	expr := c.src.nextFunc(-1, func(r rune) bool {
		return isASCIILetter(r) || isDigit(r) || r == '_' || r == '='
	})
	if !c.src.match('}') {
		return escape{}, c.src.errorp("invalid property name", pos)
	}

	set, kind := resolveProperty(expr, c.categories)
	switch kind {
	case propertyInvalid:
		return escape{}, c.src.errorp("invalid property name", pos)
	case propertyUnsupported:
		return escape{}, c.src.conversionp(fmt.Sprintf(`unsupported property escape \p{%s}`, expr), pos)
	}

	if negated {
		set = coderange.Invert(set, 0, coderange.MaxRune)
	}

	return escape{kind: escapeSet, set: set}, nil
}
