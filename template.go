package jsre

import "strings"

// ruleKind is the kind of a part of a replacement template.
type ruleKind uint8

const (
	ruleLiteral ruleKind = iota // literal text
	ruleMatch                   // $&
	rulePrefix                  // $`
	ruleSuffix                  // $'
	ruleGroup                   // $n, $nn
	ruleNamed                   // $<name>; the name is stored as literal
)

// templateRule is a part of a parsed replacement template.
type templateRule struct {
	kind    ruleKind
	literal string
	index   int
}

// parseTemplate parses a replacement template like `String.prototype.replace`:
//
//	$$       a single `$`
//	$&       the matched substring
//	$`       the part of the string before the match
//	$'       the part of the string after the match
//	$n, $nn  the n-th group; two digits are used, if they denote an existing group
//	$<name>  the named group, if the pattern contains named groups
//
// All other `$` are copied as they are. Substitutions never fail; groups, that did not
// participate in the match, are replaced by the empty string.
func parseTemplate(template string, numGroups int, hasNames bool) []templateRule {
	var rules []templateRule

	addLiteral := func(s string) {
		if s == "" {
			return
		}

		if len(rules) > 0 {
			lastRule := &rules[len(rules)-1]

			if lastRule.kind == ruleLiteral { // if last rule is also a literal, then concat the strings
				lastRule.literal += s
				return
			}
		}

		rules = append(rules, templateRule{kind: ruleLiteral, literal: s})
	}

	for len(template) > 0 {
		before, rest, ok := strings.Cut(template, "$")
		if !ok {
			break
		}

		addLiteral(before)
		template = rest

		if template == "" {
			addLiteral("$")
			break
		}

		c := template[0]

		switch {
		case c == '$':
			addLiteral("$")
			template = template[1:]
		case c == '&':
			rules = append(rules, templateRule{kind: ruleMatch})
			template = template[1:]
		case c == '`':
			rules = append(rules, templateRule{kind: rulePrefix})
			template = template[1:]
		case c == '\'':
			rules = append(rules, templateRule{kind: ruleSuffix})
			template = template[1:]
		case isDigit(c):
			index, n := groupReference(template, numGroups)
			if n == 0 {
				addLiteral("$")
				break
			}

			rules = append(rules, templateRule{kind: ruleGroup, index: index})
			template = template[n:]
		case c == '<' && hasNames:
			name, rest, ok := strings.Cut(template[1:], ">")
			if !ok {
				addLiteral("$")
				break
			}

			rules = append(rules, templateRule{kind: ruleNamed, literal: name})
			template = rest
		default:
			addLiteral("$")
		}
	}

	addLiteral(template)

	return rules
}

// groupReference parses the group number at the start of s, which starts with a digit.
// It returns the group number and the number of digits used, which is 0 if the digits do not
// denote an existing group.
func groupReference(s string, numGroups int) (int, int) {
	if len(s) >= 2 && isDigit(s[1]) {
		if i := digit(s[0])*10 + digit(s[1]); 1 <= i && i <= numGroups {
			return i, 2
		}
	}

	if i := digit(s[0]); 1 <= i && i <= numGroups {
		return i, 1
	}

	return 0, 0
}
