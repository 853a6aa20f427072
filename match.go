package jsre

import (
	"errors"
	"fmt"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/magnetde/starlark-jsre/regex"
)

var zeroInt = starlark.MakeInt(0)

// Match is the result of a successful match. All positions are byte offsets into the input.
type Match struct {
	pattern *Pattern
	in      *regex.Input

	groups []group
}

// group is a span of the input. Groups, that did not participate in the match, have the
// positions -1.
type group struct {
	start int
	end   int
	str   string
}

func (g *group) empty() bool {
	return g.start < 0 && g.end < 0
}

// newMatch creates a new match object from the unit offsets returned by `FindAt`.
func newMatch(p *Pattern, in *regex.Input, a []int) *Match {
	n := len(a) / 2

	groups := make([]group, n)
	for i := range groups {
		s, e := a[2*i], a[2*i+1]
		if s < 0 {
			groups[i] = group{start: -1, end: -1}
			continue
		}

		groups[i] = group{
			start: in.ByteOffset(s),
			end:   in.ByteOffset(e),
			str:   in.Substring(s, e),
		}
	}

	m := Match{
		pattern: p,
		in:      in,
		groups:  groups,
	}

	return &m
}

// Check, if the type satisfies the interfaces.
var (
	_ starlark.Value      = (*Match)(nil)
	_ starlark.HasAttrs   = (*Match)(nil)
	_ starlark.Mapping    = (*Match)(nil)
	_ starlark.Comparable = (*Match)(nil)
)

func (m *Match) String() string {
	g := m.groups[0]
	return fmt.Sprintf("<jsre.Match object; span=(%d, %d), match=%s>", g.start, g.end, starlark.String(g.str))
}

func (m *Match) Type() string         { return "match" }
func (m *Match) Freeze()              {}
func (m *Match) Truth() starlark.Bool { return true }

func (m *Match) Hash() (uint32, error) {
	var tmp uint32

	h, _ := m.pattern.Hash() // string type; no error possible

	for _, g := range m.groups {
		if g.empty() {
			tmp = 0
		} else {
			tmp, _ = starlark.String(g.str).Hash() // string type; no error possible
			tmp ^= uint32(g.start) ^ uint32(g.end)
		}

		h ^= tmp
		h *= 16777619
	}

	return h, nil
}

// matchMethods contains methods of the match object.
var matchMethods = map[string]*starlark.Builtin{
	"expand":    starlark.NewBuiltin("expand", matchExpand),
	"group":     starlark.NewBuiltin("group", matchGroup),
	"groups":    starlark.NewBuiltin("groups", matchGroups),
	"groupdict": starlark.NewBuiltin("groupdict", matchGroupDict),
	"start":     starlark.NewBuiltin("start", matchStart),
	"end":       starlark.NewBuiltin("end", matchEnd),
	"span":      starlark.NewBuiltin("span", matchSpan),
}

// matchMembers contains members of the match object.
var matchMembers = map[string]func(m *Match) starlark.Value{
	"index": func(m *Match) starlark.Value { return starlark.MakeInt(m.groups[0].start) },
	"input": func(m *Match) starlark.Value { return starlark.String(m.in.String()) },
	"re":    func(m *Match) starlark.Value { return m.pattern },
	"indices": func(m *Match) starlark.Value {
		if !m.pattern.has(regex.FlagHasIndices) {
			return starlark.None
		}

		r := make(starlark.Tuple, len(m.groups))
		for i, g := range m.groups {
			if g.empty() {
				r[i] = starlark.None
			} else {
				r[i] = starlark.Tuple{starlark.MakeInt(g.start), starlark.MakeInt(g.end)}
			}
		}

		return r
	},
}

// Attr gets a value for a string attribute.
func (m *Match) Attr(name string) (starlark.Value, error) {
	if o, ok := matchMethods[name]; ok {
		return o.BindReceiver(m), nil
	}

	if o, ok := matchMembers[name]; ok {
		return o(m), nil
	}

	return nil, nil
}

// AttrNames lists available dot expression strings.
func (m *Match) AttrNames() []string {
	names := make([]string, 0, len(matchMethods)+len(matchMembers))

	for name := range matchMethods {
		names = append(names, name)
	}
	for name := range matchMembers {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// Get returns the value corresponding to the specified key.
// For the match object, this is equals with calling the `group` function.
func (m *Match) Get(v starlark.Value) (starlark.Value, bool, error) {
	g, err := m.group(v)
	if err != nil {
		return nil, false, err
	}

	return g, true, nil
}

func (m *Match) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	o := y.(*Match)

	switch op {
	case syntax.EQL:
		return matchEquals(m, o), nil
	case syntax.NEQ:
		return !matchEquals(m, o), nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", m.Type(), op, o.Type())
	}
}

func matchEquals(x, y *Match) bool {
	return patternEquals(x.pattern, y.pattern) &&
		x.in.String() == y.in.String() &&
		slices.Equal(x.groups, y.groups)
}

// groupValue returns the string of the group or None, if the group did not participate.
func (m *Match) groupValue(i int, defaultValue starlark.Value) starlark.Value {
	g := &m.groups[i]
	if g.empty() {
		return defaultValue
	}

	return starlark.String(g.str)
}

func (m *Match) group(v starlark.Value) (starlark.Value, error) {
	if i, ok := m.getIndex(v); ok {
		return m.groupValue(i, starlark.None), nil
	}

	return nil, errors.New("IndexError: no such group")
}

// getIndex returns the index of the group given by number or name.
// Multiple groups may have the same name; then the group, that participated in the match, is
// chosen.
func (m *Match) getIndex(v starlark.Value) (int, bool) {
	switch t := v.(type) {
	case starlark.Int:
		i, ok := t.Int64()
		if ok && i >= 0 && i < int64(len(m.groups)) {
			return int(i), true
		}
	case starlark.String:
		return m.namedIndex(string(t))
	}

	return 0, false
}

// namedIndex returns the index of the participating group with the given name. If no group with
// this name participated, the first group with the name is returned.
func (m *Match) namedIndex(name string) (int, bool) {
	first := -1

	for _, g := range m.pattern.res.Groups {
		if g.Name != name {
			continue
		}

		if !m.groups[g.Index].empty() {
			return g.Index, true
		}
		if first < 0 {
			first = g.Index
		}
	}

	return first, first >= 0
}

func matchExpand(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var template string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "template", &template); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)

	r := newTemplateReplacer(m.pattern, template)

	s, err := r.replace(m)
	if err != nil {
		return nil, err
	}

	return starlark.String(s), nil
}

func matchGroup(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), nil, kwargs); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)
	size := len(args)

	switch size {
	case 0:
		return m.group(zeroInt)
	case 1:
		return m.group(args[0])
	default:
		result := make(starlark.Tuple, size)

		for i := range result {
			g, err := m.group(args[i])
			if err != nil {
				return nil, err
			}

			result[i] = g
		}

		return result, nil
	}
}

func matchGroups(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var defaultValue starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &defaultValue); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)

	result := make(starlark.Tuple, 0, len(m.groups)-1)
	for i := 1; i < len(m.groups); i++ {
		result = append(result, m.groupValue(i, defaultValue))
	}

	return result, nil
}

func matchGroupDict(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var defaultValue starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &defaultValue); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)

	names := m.pattern.res.GroupNames() // retains the order of the groups
	result := starlark.NewDict(len(names))

	for _, name := range names {
		i, _ := m.namedIndex(name)

		err := result.SetKey(starlark.String(name), m.groupValue(i, defaultValue))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// span returns the positions of the group; they are -1, if the group did not participate.
func (m *Match) span(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (int, int, error) {
	var group starlark.Value = zeroInt
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "group?", &group); err != nil {
		return 0, 0, err
	}

	i, ok := m.getIndex(group)
	if !ok {
		return 0, 0, errors.New("IndexError: no such group")
	}

	return m.groups[i].start, m.groups[i].end, nil
}

func matchStart(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, _, err := b.Receiver().(*Match).span(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(s), nil
}

func matchEnd(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	_, e, err := b.Receiver().(*Match).span(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(e), nil
}

func matchSpan(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, e, err := b.Receiver().(*Match).span(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	return starlark.Tuple{starlark.MakeInt(s), starlark.MakeInt(e)}, nil
}
