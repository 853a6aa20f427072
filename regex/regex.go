package regex

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"

	"github.com/magnetde/starlark-jsre/util"
)

// compileConfig contains the options of Compile.
type compileConfig struct {
	timeout time.Duration
}

// CompileOption configures Compile.
type CompileOption func(c *compileConfig)

// WithMatchTimeout limits the duration of a single match operation.
// A zero duration disables the limit.
func WithMatchTimeout(d time.Duration) CompileOption {
	return func(c *compileConfig) {
		c.timeout = d
	}
}

// Regexp is a compiled, translated regular expression.
// It matches sequences of UTF-16 code units, which are provided by an Input.
type Regexp struct {
	res *Result
	re  *regexp2.Regexp

	// Group numbers of the target engine for all ECMAScript groups.
	// The target engine numbers the unnamed groups first and merges groups with the same name.
	groupNums []int
}

// Compile compiles the translated pattern with the target engine.
func Compile(res *Result, opts ...CompileOption) (*Regexp, error) {
	var cfg compileConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	pattern := res.Pattern
	if res.Flags.Has(FlagSticky) {
		pattern = `\G(?:` + pattern + `)`
	}

	// ignoreCase is already part of the translated pattern
	r2, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot compile translated pattern %q", pattern)
	}

	if cfg.timeout > 0 {
		r2.MatchTimeout = cfg.timeout
	}

	re := &Regexp{
		res:       res,
		re:        r2,
		groupNums: make([]int, len(res.Groups)),
	}

	unnamed := 0
	for i, g := range res.Groups {
		if g.TargetName != "" {
			re.groupNums[i] = r2.GroupNumberFromName(g.TargetName)
		} else {
			unnamed++
			re.groupNums[i] = unnamed
		}
	}

	return re, nil
}

// MustCompile translates and compiles the pattern and panics on errors.
func MustCompile(pattern, flags string) *Regexp {
	res, err := Translate(pattern, flags)
	if err != nil {
		panic(err)
	}

	re, err := Compile(res)
	if err != nil {
		panic(err)
	}

	return re
}

// Result returns the translation result.
func (r *Regexp) Result() *Result {
	return r.res
}

// Flags returns the flags of the regular expression.
func (r *Regexp) Flags() Flags {
	return r.res.Flags
}

// String returns the ECMAScript source of the regular expression.
func (r *Regexp) String() string {
	return r.res.Source
}

// NumGroups returns the number of capturing groups.
func (r *Regexp) NumGroups() int {
	return len(r.res.Groups)
}

// GroupIndex returns the number of the first group with the given name or -1.
func (r *Regexp) GroupIndex(name string) int {
	return r.res.GroupIndex(name)
}

// Input is a string prepared for matching: a sequence of UTF-16 code units and the tables to
// convert between unit offsets and byte offsets of the original string.
type Input struct {
	s      string
	units  []rune
	toByte []int // nil, if the string only contains ASCII characters
	toUnit []int
}

// NewInput converts the string into UTF-16 code units.
func NewInput(s string) *Input {
	units, toByte, toUnit := util.UTF16Offsets(s)

	return &Input{
		s:      s,
		units:  units,
		toByte: toByte,
		toUnit: toUnit,
	}
}

// String returns the original string.
func (in *Input) String() string {
	return in.s
}

// Len returns the number of code units.
func (in *Input) Len() int {
	return len(in.units)
}

// ByteOffset converts a unit offset to a byte offset.
// An offset inside of a surrogate pair is mapped to the start of the pair.
func (in *Input) ByteOffset(u int) int {
	if in.toByte == nil {
		return u
	}
	return in.toByte[u]
}

// UnitOffset converts a byte offset to a unit offset.
func (in *Input) UnitOffset(b int) int {
	if in.toUnit == nil {
		return b
	}
	return in.toUnit[b]
}

// isBoundary checks if the unit offset is not inside of a character of the original string.
func (in *Input) isBoundary(u int) bool {
	return in.toByte == nil || u == 0 || u == len(in.units) || in.toByte[u] != in.toByte[u-1]
}

// Substring returns the string of the units [lo, hi).
// If a bound splits a surrogate pair, the lone surrogate is encoded as WTF-8.
func (in *Input) Substring(lo, hi int) string {
	if in.isBoundary(lo) && in.isBoundary(hi) {
		return in.s[in.ByteOffset(lo):in.ByteOffset(hi)]
	}
	return util.FromUTF16(in.units[lo:hi])
}

// AdvanceIndex returns the index after the character at index i.
// In unicode mode, a surrogate pair is a single character.
func (in *Input) AdvanceIndex(i int, unicode bool) int {
	if unicode && i+1 < len(in.units) && util.IsHighSurrogate(in.units[i]) && util.IsLowSurrogate(in.units[i+1]) {
		return i + 2
	}
	return i + 1
}

// FindAt searches the first match starting at the unit offset pos. With the sticky flag, the
// match must start at pos.
// The result contains the start and end unit offsets of the match and of all groups in the
// ECMAScript numbering; unset groups have the offsets -1. If no match was found, nil is returned.
func (r *Regexp) FindAt(in *Input, pos int, dstCap []int) ([]int, error) {
	if pos < 0 || pos > len(in.units) {
		return nil, nil
	}

	m, err := r.re.FindRunesMatchStartingAt(in.units, pos)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot match %s", r.res.Source)
	}
	if m == nil {
		return nil, nil
	}

	a := growSlice(dstCap, 2*(1+len(r.groupNums)))
	a[0] = m.Index
	a[1] = m.Index + m.Length

	for i, num := range r.groupNums {
		start, end := -1, -1

		if g := m.GroupByNumber(num); g != nil && len(g.Captures) != 0 {
			start = g.Index
			end = g.Index + g.Length
		}

		a[2*(i+1)] = start
		a[2*(i+1)+1] = end
	}

	return a, nil
}

// growSlice increases the slice's size, if necessary, to guarantee a size
// if n. If the previous capacity was less than n, the slice is filled with
// elements with a value of zero. If n is negative or too large to allocate
// the memory, growSlice panics. For safety reasons, the resulting slice is
// filled with zero values.
// See also slices.Grow.
func growSlice[S ~[]E, E any](s S, n int) S {
	var zero E

	if n < 0 {
		panic("cannot be negative")
	}
	if cap(s) < n {
		s = append(s[:cap(s)], make([]E, n-cap(s))...)
	}

	s = s[:n]
	for i := range s {
		s[i] = zero
	}
	return s
}
