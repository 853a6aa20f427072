package regex

// mode contains the behavior, that differs between the legacy (non-unicode) and the unicode mode
// of the rewriter. Both implementations are stateless; all state is kept in the context.
type mode interface {
	// nextChar reads the next character of the pattern: a single code unit in legacy mode, a
	// code point in unicode mode.
	nextChar(c *context) rune

	// processChar writes a literal character outside of a character class.
	processChar(c *context, ch rune)

	// beginSet is called after the opening bracket (and the optional `^`) of a class was read.
	beginSet(c *context)

	// processSetChar adds a literal character to the current class.
	processSetChar(c *context, ch rune)

	// processSetRange completes a range of the current class. The start of the range was already
	// added with processSetChar.
	processSetRange(c *context, lo, hi rune)

	// processClassEscape adds a class escape to the current class or, if inClass is false,
	// writes it as a standalone atom.
	processClassEscape(c *context, set []rng, inClass bool)

	// rewriteSet writes the current class after its closing bracket was read.
	rewriteSet(c *context)

	// rewriteDot writes the translation of `.`.
	rewriteDot(c *context)

	// allowsQuantifierAfterGroup returns, whether a group of the given kind may be quantified.
	allowsQuantifierAfterGroup(k groupKind) bool

	// handleInvalidRangeQuantifier is called, if a `{` at pos does not start a quantifier.
	handleInvalidRangeQuantifier(c *context, pos int) error

	// adjustEscape handles an identity escape `\ch` at pos, that has no special meaning.
	adjustEscape(c *context, pos int, ch rune) (rune, error)

	// domain returns the largest character of this mode, which is the upper bound when
	// inverting sets.
	domain() rune
}

var (
	_ mode = legacyMode{}
	_ mode = unicodeMode{}
)

// modeFor selects the mode for the given flags.
func modeFor(flags Flags) mode {
	if flags.Has(FlagUnicode) {
		return unicodeMode{}
	}
	return legacyMode{}
}
