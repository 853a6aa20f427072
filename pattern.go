package jsre

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/magnetde/starlark-jsre/regex"
)

// Pattern is a starlark representation of a compiled regular expression.
type Pattern struct {
	re  *regex.Regexp
	res *regex.Result
}

// newPattern compiles the translated regular expression.
func newPattern(res *regex.Result, timeout time.Duration) (*Pattern, error) {
	re, err := regex.Compile(res, regex.WithMatchTimeout(timeout))
	if err != nil {
		return nil, err
	}

	p := Pattern{
		re:  re,
		res: res,
	}

	return &p, nil
}

// Check, if the type satisfies the interfaces.
var (
	_ starlark.Value      = (*Pattern)(nil)
	_ starlark.HasAttrs   = (*Pattern)(nil)
	_ starlark.Comparable = (*Pattern)(nil)
)

func (p *Pattern) has(f regex.Flags) bool { return p.res.Flags.Has(f) }

// String returns the pattern as regular expression literal.
func (p *Pattern) String() string {
	return literal(p.res.Source, p.res.Flags.String())
}

func (p *Pattern) Type() string          { return "pattern" }
func (p *Pattern) Freeze()               {}
func (p *Pattern) Truth() starlark.Bool  { return true }
func (p *Pattern) Hash() (uint32, error) { return starlark.String(p.String()).Hash() }

// Methods of the pattern object.
var patternMethods = map[string]*starlark.Builtin{
	"exec":      starlark.NewBuiltin("exec", patternExec),
	"test":      starlark.NewBuiltin("test", patternTest),
	"search":    starlark.NewBuiltin("search", patternSearch),
	"match_all": starlark.NewBuiltin("match_all", patternMatchAll),
	"replace":   starlark.NewBuiltin("replace", patternReplace),
	"split":     starlark.NewBuiltin("split", patternSplit),
}

func flagMember(f regex.Flags) func(p *Pattern) starlark.Value {
	return func(p *Pattern) starlark.Value { return starlark.Bool(p.has(f)) }
}

// patternMembers contains members of the pattern object.
var patternMembers = map[string]func(p *Pattern) starlark.Value{
	"source":      func(p *Pattern) starlark.Value { return starlark.String(p.res.Source) },
	"flags":       func(p *Pattern) starlark.Value { return starlark.String(p.res.Flags.String()) },
	"translated":  func(p *Pattern) starlark.Value { return starlark.String(p.res.Pattern) },
	"groups":      func(p *Pattern) starlark.Value { return starlark.MakeInt(p.re.NumGroups()) },
	"has_indices": flagMember(regex.FlagHasIndices),
	"is_global":   flagMember(regex.FlagGlobal),
	"ignore_case": flagMember(regex.FlagIgnoreCase),
	"multiline":   flagMember(regex.FlagMultiline),
	"dot_all":     flagMember(regex.FlagDotAll),
	"unicode":     flagMember(regex.FlagUnicode),
	"sticky":      flagMember(regex.FlagSticky),
	"groupindex": func(p *Pattern) starlark.Value {
		names := p.res.GroupNames()

		gi := starlark.NewDict(len(names))
		for _, name := range names {
			_ = gi.SetKey(starlark.String(name), starlark.MakeInt(p.res.GroupIndex(name)))
		}

		// Freeze the result
		gi.Freeze()

		return gi
	},
}

// Attr gets a value for a string attribute.
func (p *Pattern) Attr(name string) (starlark.Value, error) {
	if o, ok := patternMethods[name]; ok {
		return o.BindReceiver(p), nil
	}

	if o, ok := patternMembers[name]; ok {
		return o(p), nil
	}

	return nil, nil
}

// AttrNames lists available dot expression strings.
func (p *Pattern) AttrNames() []string {
	names := make([]string, 0, len(patternMethods)+len(patternMembers))

	for name := range patternMethods {
		names = append(names, name)
	}
	for name := range patternMembers {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

func (p *Pattern) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	o := y.(*Pattern)

	switch op {
	case syntax.EQL:
		return patternEquals(p, o), nil
	case syntax.NEQ:
		return !patternEquals(p, o), nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", p.Type(), op, o.Type())
	}
}

func patternEquals(x, y *Pattern) bool {
	return x.res.Source == y.res.Source && x.res.Flags == y.res.Flags
}

// regexpExec searches the first match like `RegExp.prototype.exec`: the search starts at the
// byte offset pos, if the pattern is global or sticky, and at the start of the string otherwise.
func regexpExec(p *Pattern, str string, pos int) (starlark.Value, error) {
	if !p.has(regex.FlagGlobal) && !p.has(regex.FlagSticky) {
		pos = 0
	}
	if pos > len(str) {
		return starlark.None, nil
	}

	in := regex.NewInput(str)

	a, err := p.re.FindAt(in, in.UnitOffset(max(pos, 0)), nil)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return starlark.None, nil
	}

	return newMatch(p, in, a), nil
}

// regexpTest - see `reTest`.
func regexpTest(p *Pattern, str string, pos int) (starlark.Value, error) {
	m, err := regexpExec(p, str, pos)
	if err != nil {
		return nil, err
	}

	return starlark.Bool(m != starlark.None), nil
}

// regexpSearch - see `reSearch`. The search ignores the global flag.
func regexpSearch(p *Pattern, str string) (starlark.Value, error) {
	in := regex.NewInput(str)

	a, err := p.re.FindAt(in, 0, nil)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return starlark.MakeInt(-1), nil
	}

	return starlark.MakeInt(in.ByteOffset(a[0])), nil
}

// regexpMatchAll - see `reMatchAll`.
func regexpMatchAll(p *Pattern, str string) (starlark.Value, error) {
	if !p.has(regex.FlagGlobal) {
		return nil, errors.New("match_all requires a global pattern")
	}

	in := regex.NewInput(str)

	var l []starlark.Value
	err := findMatches(p, in, func(a []int) error {
		l = append(l, newMatch(p, in, a))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return starlark.NewList(l), nil
}

// patternExec - see `reExec`.
func patternExec(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str string
		pos = 0
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "pos?", &pos); err != nil {
		return nil, err
	}

	p := b.Receiver().(*Pattern)
	return regexpExec(p, str, pos)
}

// patternTest - see `reTest`.
func patternTest(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str string
		pos = 0
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "pos?", &pos); err != nil {
		return nil, err
	}

	p := b.Receiver().(*Pattern)
	return regexpTest(p, str, pos)
}

// patternSearch - see `reSearch`.
func patternSearch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var str string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str); err != nil {
		return nil, err
	}

	p := b.Receiver().(*Pattern)
	return regexpSearch(p, str)
}

// patternMatchAll - see `reMatchAll`.
func patternMatchAll(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var str string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str); err != nil {
		return nil, err
	}

	p := b.Receiver().(*Pattern)
	return regexpMatchAll(p, str)
}

// patternReplace - see `reReplace`.
func patternReplace(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str  string
		repl starlark.Value
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "repl", &repl); err != nil {
		return nil, err
	}

	p := b.Receiver().(*Pattern)
	return regexpReplace(thread, p, str, repl)
}

// patternSplit - see `reSplit`.
func patternSplit(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str   string
		limit = -1
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "limit?", &limit); err != nil {
		return nil, err
	}

	p := b.Receiver().(*Pattern)
	return regexpSplit(p, str, limit)
}
