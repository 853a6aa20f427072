package jsre

import "github.com/magnetde/starlark-jsre/regex"

// findMatches delivers all matches of the pattern like the iteration of `String.prototype.matchAll`:
// the search starts at the beginning of the input and continues at the end of the previous match.
// After an empty match, the position is advanced by one character, so that the same match is not
// found twice. A sticky pattern stops at the first position without a match.
// The deliver function may keep the match slice.
func findMatches(p *Pattern, in *regex.Input, deliver func(a []int) error) error {
	unicode := p.has(regex.FlagUnicode) || p.has(regex.FlagUnicodeSets)

	pos := 0
	for pos <= in.Len() {
		a, err := p.re.FindAt(in, pos, nil)
		if err != nil {
			return err
		}
		if a == nil {
			break
		}

		if err = deliver(a); err != nil {
			return err
		}

		if a[0] == a[1] {
			pos = in.AdvanceIndex(a[1], unicode)
		} else {
			pos = a[1]
		}
	}

	return nil
}
