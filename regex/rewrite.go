package regex

import (
	"slices"

	"github.com/magnetde/starlark-jsre/coderange"
)

// maxBound is the largest quantifier bound of the target engine.
const maxBound = "2147483647"

// rangeKind is the state of a character class regarding ranges.
type rangeKind uint8

const (
	rangeNone                        rangeKind = iota // no item, that may start a range
	rangeStarted                                      // the last item was a character
	rangeStartedClassEscape                           // the last item was a class escape
	rangeAwaitingEnd                                  // a character followed by a dash
	rangeAwaitingEndAfterClassEscape                  // a class escape followed by a dash
)

// rangeState contains the range state and the start of the pending range.
type rangeState struct {
	kind rangeKind
	lo   rune
	pos  int // position of the start of the range
}

// openGroup is a group, that was opened in the output but not yet closed.
type openGroup struct {
	kind groupKind
	out  int // output position of the group prefix
}

// context contains the state of a single rewrite.
type context struct {
	src        *source
	flags      Flags
	mode       mode
	st         *structure
	names      map[string]string // group name -> target name
	categories func(coderange.Category) []rng

	out      []byte
	nextOpen int // index of the next group in st.opens
	groups   []openGroup
	scopes   scopeStack

	canRepeat bool // whether a quantifier may follow
	atomStart int  // output position of the last atom
	wrapAtom  bool // whether the last atom must be grouped, before it is quantified

	inClass    bool
	negated    bool
	classStart int // output position of the class
	classItems int
	rng        rangeState
	ranges     []rng // collected ranges of the class (unicode mode)
}

// rewrite translates the validated pattern into the syntax of the target engine.
// The read position of src must be at the start of the pattern.
func rewrite(src *source, flags Flags, st *structure, names map[string]string, categories func(coderange.Category) []rng) (string, error) {
	c := &context{
		src:        src,
		flags:      flags,
		mode:       modeFor(flags),
		st:         st,
		names:      names,
		categories: categories,
		out:        make([]byte, 0, 2*src.len()),
	}
	c.scopes.init()

	for !c.src.eof() {
		var err error
		if c.inClass {
			err = c.classStep()
		} else {
			err = c.step()
		}

		if err != nil {
			return "", err
		}
	}

	return string(c.out), nil
}

// beginAtom marks the start of a new quantifiable atom at the current output position.
func (c *context) beginAtom() {
	c.atomStart = len(c.out)
	c.canRepeat = true
	c.wrapAtom = false
}

// step rewrites the next term outside of a character class.
func (c *context) step() error {
	pos := c.src.tell()
	ch, _ := c.src.peek()

	switch ch {
	case '\\':
		c.src.read()
		return c.atomEscape(pos)
	case '[':
		c.src.read()
		c.beginClass()
	case '(':
		c.src.read()
		return c.openGroup(pos)
	case ')':
		c.src.read()
		c.closeGroup()
	case '|':
		c.src.read()
		c.out = append(c.out, '|')
		c.scopes.alternate()
		c.canRepeat = false
	case '^':
		c.src.read()
		if c.flags.Has(FlagMultiline) {
			c.out = append(c.out, startOfLine...)
		} else {
			c.out = append(c.out, startOfInput...)
		}
		c.canRepeat = false
	case '$':
		c.src.read()
		if c.flags.Has(FlagMultiline) {
			c.out = append(c.out, endOfLine...)
		} else {
			c.out = append(c.out, endOfInput...)
		}
		c.canRepeat = false
	case '.':
		c.src.read()
		c.beginAtom()
		c.mode.rewriteDot(c)
	case '*', '+', '?':
		c.src.read()
		return c.quantify(pos, string(ch))
	case '{':
		return c.rangeQuantifier(pos)
	default:
		ch = c.mode.nextChar(c)
		c.beginAtom()
		c.mode.processChar(c, ch)
	}

	return nil
}

// atomEscape rewrites an escape sequence outside of a character class.
func (c *context) atomEscape(pos int) error {
	e, err := c.parseEscape(pos)
	if err != nil {
		return err
	}

	switch e.kind {
	case escapeChar:
		c.beginAtom()
		c.mode.processChar(c, e.ch)
	case escapeSet:
		c.beginAtom()
		c.mode.processClassEscape(c, e.set, false)
	}

	return nil
}

// openGroup writes the prefix of the group, whose opening parenthesis at pos was just read.
// The group kinds were already determined by the structural pass.
func (c *context) openGroup(pos int) error {
	o := c.st.opens[c.nextOpen]
	c.nextOpen++
	c.src.seek(o.end)

	c.groups = append(c.groups, openGroup{kind: o.kind, out: len(c.out)})

	if o.kind == groupNamed {
		if !c.scopes.declare(o.name) {
			return c.src.errorp("duplicate capture group name", pos+3)
		}

		c.out = append(c.out, "(?<"...)
		c.out = append(c.out, c.names[o.name]...)
		c.out = append(c.out, '>')
	} else {
		c.out = append(c.out, o.kind.prefix()...)
	}

	c.scopes.push()
	c.canRepeat = false
	return nil
}

// closeGroup closes the innermost open group.
func (c *context) closeGroup() {
	n := len(c.groups)
	if n == 0 {
		panic("regex: unbalanced group")
	}

	g := c.groups[n-1]
	c.groups = c.groups[:n-1]

	c.out = append(c.out, ')')
	c.scopes.pop()

	c.atomStart = g.out
	c.canRepeat = c.mode.allowsQuantifierAfterGroup(g.kind)
	c.wrapAtom = g.kind.isLookahead()
}

// quantify writes the quantifier q, whose first character is at pos, for the last atom.
// A following `?` makes the quantifier lazy.
func (c *context) quantify(pos int, q string) error {
	if !c.canRepeat {
		return c.src.errorp("nothing to repeat", pos)
	}

	if c.wrapAtom {
		c.out = slices.Insert(c.out, c.atomStart, []byte("(?:")...)
		c.out = append(c.out, ')')
	}

	c.out = append(c.out, q...)
	if c.src.match('?') {
		c.out = append(c.out, '?')
	}

	c.canRepeat = false
	c.wrapAtom = false
	return nil
}

// rangeQuantifier rewrites `{m}`, `{m,}` or `{m,n}` at pos.
// If the brace does not start a quantifier, the mode decides, whether it is a literal.
func (c *context) rangeQuantifier(pos int) error {
	c.src.read()

	lo := c.src.nextDecimal()
	hi := lo
	comma := false

	valid := lo != ""
	if valid && c.src.match(',') {
		comma = true
		hi = c.src.nextDecimal()
	}

	if !valid || !c.src.match('}') {
		c.src.seek(pos + 1)
		return c.mode.handleInvalidRangeQuantifier(c, pos)
	}

	if !c.canRepeat {
		return c.src.errorp("nothing to repeat", pos)
	}
	if hi != "" && compareDecimal(lo, hi) > 0 {
		return c.src.errorp("numbers out of order in {} quantifier", pos)
	}
	if compareDecimal(lo, maxBound) > 0 || (hi != "" && compareDecimal(hi, maxBound) > 0) {
		return c.src.conversionp("quantifier bound exceeds target limit", pos)
	}

	q := "{" + trimZeros(lo)
	if comma {
		q += ","
		if hi != "" {
			q += trimZeros(hi)
		}
	}
	q += "}"

	return c.quantify(pos, q)
}

// beginClass starts a character class, after the opening bracket was read.
func (c *context) beginClass() {
	c.beginAtom()

	c.inClass = true
	c.negated = c.src.match('^')
	c.classStart = len(c.out)
	c.classItems = 0
	c.rng = rangeState{}
	c.ranges = c.ranges[:0]

	c.mode.beginSet(c)
}

// classStep rewrites the next item of a character class.
func (c *context) classStep() error {
	pos := c.src.tell()
	ch, _ := c.src.peek()

	switch ch {
	case ']':
		c.src.read()
		c.endClass()
		return nil
	case '-':
		switch c.rng.kind {
		case rangeStarted:
			c.src.read()
			c.rng.kind = rangeAwaitingEnd
			return nil
		case rangeStartedClassEscape:
			c.src.read()
			c.rng.kind = rangeAwaitingEndAfterClassEscape
			return nil
		}
	}

	var e escape
	if ch == '\\' {
		c.src.read()

		var err error
		if e, err = c.parseEscape(pos); err != nil {
			return err
		}
	} else {
		e = escape{kind: escapeChar, ch: c.mode.nextChar(c)}
	}

	if e.kind == escapeSet {
		return c.classSet(pos, e.set)
	}
	return c.classChar(pos, e.ch)
}

// classChar adds a single character at pos to the current class.
func (c *context) classChar(pos int, ch rune) error {
	switch c.rng.kind {
	case rangeAwaitingEnd:
		if c.rng.lo > ch {
			return c.src.errorp("range out of order in character class", c.rng.pos)
		}

		c.mode.processSetRange(c, c.rng.lo, ch)
		c.rng = rangeState{}
		return nil
	case rangeAwaitingEndAfterClassEscape:
		if err := c.danglingDash(pos); err != nil {
			return err
		}
	}

	c.mode.processSetChar(c, ch)
	c.rng = rangeState{kind: rangeStarted, lo: ch, pos: pos}
	return nil
}

// classSet adds the set of a class escape at pos to the current class.
func (c *context) classSet(pos int, set []rng) error {
	switch c.rng.kind {
	case rangeAwaitingEnd, rangeAwaitingEndAfterClassEscape:
		if err := c.danglingDash(pos); err != nil {
			return err
		}
	}

	c.mode.processClassEscape(c, set, true)
	c.rng = rangeState{kind: rangeStartedClassEscape}
	return nil
}

// danglingDash handles a dash before the item at pos, if both items do not form a range.
// Legacy mode treats the dash as a literal, in unicode mode this is an error.
func (c *context) danglingDash(pos int) error {
	if c.flags.Has(FlagUnicode) {
		return c.src.errorp("invalid character class", pos)
	}

	c.mode.processSetChar(c, '-')
	return nil
}

// endClass finishes the current class, after its closing bracket was read.
func (c *context) endClass() {
	switch c.rng.kind {
	case rangeAwaitingEnd, rangeAwaitingEndAfterClassEscape:
		c.mode.processSetChar(c, '-')
	}

	c.mode.rewriteSet(c)
	c.inClass = false
}
