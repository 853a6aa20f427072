package regex

// groupKind is the kind of a parenthesized group.
type groupKind uint8

// Available group kinds.
const (
	groupCapture       groupKind = iota // (...)
	groupNamed                          // (?<name>...)
	groupNonCapture                     // (?:...)
	groupLookahead                      // (?=...)
	groupNegLookahead                   // (?!...)
	groupLookbehind                     // (?<=...)
	groupNegLookbehind                  // (?<!...)
)

// isLookahead checks if the group is a positive or negative lookahead.
func (k groupKind) isLookahead() bool {
	return k == groupLookahead || k == groupNegLookahead
}

// isLookbehind checks if the group is a positive or negative lookbehind.
func (k groupKind) isLookbehind() bool {
	return k == groupLookbehind || k == groupNegLookbehind
}

// prefix returns the group prefix in the target syntax.
// Named groups are not included, because their prefix contains the target name.
func (k groupKind) prefix() string {
	switch k {
	case groupCapture:
		return "("
	case groupNonCapture:
		return "(?:"
	case groupLookahead:
		return "(?="
	case groupNegLookahead:
		return "(?!"
	case groupLookbehind:
		return "(?<="
	case groupNegLookbehind:
		return "(?<!"
	default:
		panic("regex: group prefix of named group")
	}
}

// groupOpen describes an opening parenthesis found by the structural pass.
type groupOpen struct {
	kind  groupKind
	pos   int // position of the '('
	end   int // position after the group prefix
	group int // index into the capture group list; -1 if the group is not capturing
	name  string
}

// structure is the result of the structural pass.
type structure struct {
	opens  []groupOpen    // all groups in order of their opening parenthesis
	groups []CaptureGroup // capturing groups, numbered from 1
	names  map[string]int // number of groups per name
}

// hasNames checks if the pattern contains named groups.
func (st *structure) hasNames() bool {
	return len(st.names) > 0
}

// validate checks that all groups, character classes and (in unicode mode) quantifier braces
// of the pattern are balanced, classifies all groups and collects the capturing groups.
// Escaped characters are skipped without any inspection.
func validate(s *source, unicodeMode bool) (*structure, error) {
	st := &structure{
		names: make(map[string]int),
	}

	depth := 0
	inBraces := false
	inClass := false

	for !s.eof() {
		pos := s.tell()
		c, _ := s.read()

		if c == '\\' {
			if _, ok := s.read(); !ok {
				return nil, s.errorp(`\ at end of pattern`, pos)
			}
			continue
		}

		if inClass {
			if c == ']' {
				inClass = false
			}
			continue
		}

		switch c {
		case '[':
			inClass = true
		case ']':
			if unicodeMode {
				return nil, s.errorp("unmatched ']'", pos)
			}
		case '(':
			o, err := classifyGroup(s, pos)
			if err != nil {
				return nil, err
			}

			if o.kind == groupCapture || o.kind == groupNamed {
				o.group = len(st.groups)

				g := CaptureGroup{
					Index: len(st.groups) + 1,
					Start: s.base + pos,
				}

				if o.kind == groupNamed {
					g.Name = o.name
					st.names[o.name]++
				}

				st.groups = append(st.groups, g)
			}

			st.opens = append(st.opens, o)
			depth++
		case ')':
			if depth == 0 {
				return nil, s.errorp("unmatched ')'", pos)
			}
			depth--
		case '{':
			if unicodeMode {
				if inBraces {
					return nil, s.errorp("lone quantifier brackets", pos)
				}
				inBraces = true
			}
		case '}':
			if unicodeMode {
				if !inBraces {
					return nil, s.errorp("lone quantifier brackets", pos)
				}
				inBraces = false
			}
		}
	}

	end := s.len()

	switch {
	case inClass:
		return nil, s.errorp("unterminated character class", end)
	case depth > 0:
		return nil, s.errorp("unterminated group", end)
	case inBraces:
		return nil, s.errorp("incomplete quantifier", end)
	}

	return st, nil
}

// classifyGroup determines the kind of the group, whose opening parenthesis was just read.
// The read position is moved behind the group prefix.
func classifyGroup(s *source, pos int) (groupOpen, error) {
	o := groupOpen{pos: pos, group: -1}

	if !s.match('?') {
		o.kind = groupCapture
		o.end = s.tell()
		return o, nil
	}

	c, _ := s.read()
	switch c {
	case ':':
		o.kind = groupNonCapture
	case '=':
		o.kind = groupLookahead
	case '!':
		o.kind = groupNegLookahead
	case '<':
		switch {
		case s.match('='):
			o.kind = groupLookbehind
		case s.match('!'):
			o.kind = groupNegLookbehind
		default:
			name, ok := s.groupName()
			if !ok {
				return o, s.errorp("invalid capture group name", pos+2)
			}

			o.kind = groupNamed
			o.name = name
		}
	default:
		return o, s.errorp("invalid group", pos)
	}

	o.end = s.tell()
	return o, nil
}
