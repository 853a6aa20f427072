package jsre

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-jsre/regex"
)

type replacer interface {
	replace(m *Match) (string, error)
}

// Replacer implementations

// Replacer for templates.
// If the replace string does not contain any substitutions, the rule slice contains a single item,
// representing a literal.
type templateReplacer struct {
	rules []templateRule
}

// Replacer for functions
type functionReplacer func(m *Match) (string, error)

// Check if the types satisfy the replacer interface.
var (
	_ replacer = (*templateReplacer)(nil)
	_ replacer = (*functionReplacer)(nil)
)

func (r *templateReplacer) replace(m *Match) (string, error) {
	var b strings.Builder

	whole := m.groups[0]
	s := m.in.String()

	for _, t := range r.rules {
		switch t.kind {
		case ruleLiteral:
			b.WriteString(t.literal)
		case ruleMatch:
			b.WriteString(whole.str)
		case rulePrefix:
			b.WriteString(s[:whole.start])
		case ruleSuffix:
			b.WriteString(s[whole.end:])
		case ruleGroup:
			if g := &m.groups[t.index]; !g.empty() {
				b.WriteString(g.str)
			}
		case ruleNamed:
			if i, ok := m.namedIndex(t.literal); ok && !m.groups[i].empty() {
				b.WriteString(m.groups[i].str)
			}
		}
	}

	return b.String(), nil
}

func (r functionReplacer) replace(m *Match) (string, error) {
	return r(m)
}

func getReplacer(thread *starlark.Thread, p *Pattern, r starlark.Value) (replacer, error) {
	switch t := r.(type) {
	case starlark.String:
		return newTemplateReplacer(p, string(t)), nil
	case starlark.Callable:
		fn := func(m *Match) (string, error) {
			raw, err := starlark.Call(thread, t, starlark.Tuple{m}, nil)
			if err != nil {
				return "", err
			}

			res, ok := raw.(starlark.String)
			if !ok {
				return "", fmt.Errorf("replacement function returned %s, want str", raw.Type())
			}

			return string(res), nil
		}

		return functionReplacer(fn), nil
	default:
		return nil, fmt.Errorf("got %s, want str or function", r.Type())
	}
}

// newTemplateReplacer creates a replacer, that substitutes the template for each match.
func newTemplateReplacer(p *Pattern, repl string) replacer {
	var rules []templateRule

	if !strings.ContainsRune(repl, '$') { // check, if the template should be parsed
		rules = []templateRule{{kind: ruleLiteral, literal: repl}}
	} else {
		rules = parseTemplate(repl, p.re.NumGroups(), len(p.res.GroupNames()) > 0)
	}

	return &templateReplacer{rules: rules}
}

// regexpReplace replaces the first match or, if the pattern is global, all matches.
func regexpReplace(thread *starlark.Thread, p *Pattern, str string, repl starlark.Value) (starlark.Value, error) {
	r, err := getReplacer(thread, p, repl)
	if err != nil {
		return nil, err
	}

	in := regex.NewInput(str)

	var replaced strings.Builder
	beg := 0

	apply := func(a []int) error {
		m := newMatch(p, in, a)

		s, err := r.replace(m)
		if err != nil {
			return err
		}

		replaced.WriteString(str[beg:m.groups[0].start])
		replaced.WriteString(s)
		beg = m.groups[0].end

		return nil
	}

	if p.has(regex.FlagGlobal) {
		err = findMatches(p, in, apply)
	} else {
		var a []int
		a, err = p.re.FindAt(in, 0, nil)
		if err == nil && a != nil {
			err = apply(a)
		}
	}
	if err != nil {
		return nil, err
	}

	replaced.WriteString(str[beg:])

	return starlark.String(replaced.String()), nil
}
