package regex

// legacyMode rewrites patterns without the unicode flag.
// The pattern and the input are sequences of UTF-16 code units, so each unit is a character and
// classes can be written directly while they are scanned.
type legacyMode struct{}

func (legacyMode) nextChar(c *context) rune {
	ch, _ := c.src.read()
	return ch
}

func (legacyMode) processChar(c *context, ch rune) {
	if rs, ok := c.foldChar(ch); ok {
		c.out = appendClass(c.out, rs)
		return
	}
	c.out = appendLiteral(c.out, ch)
}

func (legacyMode) beginSet(c *context) {
	c.out = append(c.out, '[')
	if c.negated {
		c.out = append(c.out, '^')
	}
}

// processSetChar writes the character. With ignoreCase, its case variants are written first, so
// that the character itself may still start a range.
func (legacyMode) processSetChar(c *context, ch rune) {
	if rs, ok := c.foldChar(ch); ok {
		c.out = appendClassRanges(c.out, rs)
	}
	c.out = appendClassLiteral(c.out, ch)
	c.classItems++
}

func (legacyMode) processSetRange(c *context, lo, hi rune) {
	c.out = append(c.out, '-')
	c.out = appendClassLiteral(c.out, hi)

	if c.flags.Has(FlagIgnoreCase) {
		if rs := c.fold([]rng{{Lo: lo, Hi: hi}}); len(rs) > 1 || rs[0].Lo != lo || rs[0].Hi != hi {
			c.out = appendClassRanges(c.out, rs)
		}
	}
}

func (legacyMode) processClassEscape(c *context, set []rng, inClass bool) {
	set = c.fold(set)

	if inClass {
		c.out = appendClassRanges(c.out, set)
		c.classItems++
	} else {
		c.out = appendClass(c.out, set)
	}
}

// rewriteSet replaces the empty class `[]` by a pattern, that never matches, and `[^]` by a class,
// that matches every unit.
func (legacyMode) rewriteSet(c *context) {
	if c.classItems > 0 {
		c.out = append(c.out, ']')
		return
	}

	c.out = c.out[:c.classStart]
	if c.negated {
		c.out = append(c.out, patternAnyUnit...)
	} else {
		c.out = append(c.out, patternNever...)
	}
}

func (legacyMode) rewriteDot(c *context) {
	if c.flags.Has(FlagDotAll) {
		c.out = append(c.out, patternAnyUnit...)
	} else {
		c.out = append(c.out, legacyDot...)
	}
}

// allowsQuantifierAfterGroup allows quantified lookaheads, which is an extension for web browsers.
func (legacyMode) allowsQuantifierAfterGroup(k groupKind) bool {
	return !k.isLookbehind()
}

func (legacyMode) handleInvalidRangeQuantifier(c *context, pos int) error {
	c.beginAtom()
	c.out = append(c.out, '\\', '{')
	return nil
}

func (legacyMode) adjustEscape(c *context, pos int, ch rune) (rune, error) {
	return ch, nil
}

func (legacyMode) domain() rune {
	return maxBMP
}
