// Package jsre provides the Starlark module `jsre`, which offers ECMAScript regular expressions.
// The patterns are translated into the syntax of the regexp2 engine and matched against the
// UTF-16 code units of the subject strings; all positions exposed to Starlark are byte offsets.
package jsre

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.uber.org/zap"

	"github.com/magnetde/starlark-jsre/regex"
)

// Default size of the cache of compiled patterns.
// 64 should be more than enough, because Starlark scripts stay relatively small.
const defaultCacheSize = 64

// Module is a module type used for the jsre module.
// A new type is implemented instead of using the `starlarkstruct.Module` type,
// since the module contains a LRU cache for compiled patterns and the translator.
// The module is safe for concurrent use by multiple Starlark threads.
type Module struct {
	members starlark.StringDict

	cache      *lru.Cache[cacheKey, *Pattern] // nil patterns are cached for untranslatable literals
	translator *regex.Translator
	timeout    time.Duration
	logger     *zap.Logger
}

// cacheKey is the key of the pattern cache, containing the pattern and the flags.
type cacheKey struct {
	pattern string
	flags   string
}

// config contains the options of NewModule.
type config struct {
	strict    bool
	cacheSize int
	timeout   time.Duration
	logger    *zap.Logger
}

// Option configures the module.
type Option func(c *config)

// WithStrict sets whether untranslatable patterns are errors. By default, they are logged and
// compile to None.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithCacheSize sets the maximum number of cached patterns.
func WithCacheSize(n int) Option {
	return func(c *config) {
		c.cacheSize = n
	}
}

// WithMatchTimeout limits the duration of a single match operation.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// NewModule creates a new jsre module.
func NewModule(opts ...Option) *Module {
	cfg := config{
		cacheSize: defaultCacheSize,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.cacheSize <= 0 {
		cfg.cacheSize = defaultCacheSize
	}

	policy := regex.Tolerant
	if cfg.strict {
		policy = regex.Strict
	}

	cache, err := lru.New[cacheKey, *Pattern](cfg.cacheSize)
	if err != nil {
		panic(err) // only fails for non-positive sizes
	}

	members := starlark.StringDict{
		"compile":   starlark.NewBuiltin("compile", reCompile),
		"translate": starlark.NewBuiltin("translate", reTranslate),
		"purge":     starlark.NewBuiltin("purge", rePurge),

		"test":      starlark.NewBuiltin("test", reTest),
		"exec":      starlark.NewBuiltin("exec", reExec),
		"search":    starlark.NewBuiltin("search", reSearch),
		"match_all": starlark.NewBuiltin("match_all", reMatchAll),
		"replace":   starlark.NewBuiltin("replace", reReplace),
		"split":     starlark.NewBuiltin("split", reSplit),
		"escape":    starlark.NewBuiltin("escape", reEscape),
	}

	m := &Module{
		members: members,
		cache:   cache,
		translator: regex.NewTranslator(
			regex.WithPolicy(policy),
			regex.WithReporter(regex.ZapReporter{Logger: cfg.logger}),
		),
		timeout: cfg.timeout,
		logger:  cfg.logger,
	}

	return m
}

// Check, if the type satisfies the interfaces.
var (
	_ starlark.Value    = (*Module)(nil)
	_ starlark.HasAttrs = (*Module)(nil)
)

func (m *Module) Freeze()               { m.members.Freeze() }
func (m *Module) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", m.Type()) }
func (m *Module) String() string        { return "<module jsre>" }
func (m *Module) Truth() starlark.Bool  { return true }
func (m *Module) Type() string          { return "module" }

func (m *Module) Attr(name string) (starlark.Value, error) {
	if v, ok := m.members[name]; ok {
		if b, ok := v.(*starlark.Builtin); ok {
			return b.BindReceiver(m), nil
		}

		return v, nil
	}

	return nil, nil
}
func (m *Module) AttrNames() []string { return m.members.Keys() }

// Compile compiles a regular expression literal `/pattern/flags`. If the pattern is already in
// the cache, the compiled pattern is returned from the cache.
// If the pattern is valid, but cannot be translated, and the module is not strict, the warning
// is logged and nil is returned without an error.
func (m *Module) Compile(pattern, flags string) (*Pattern, error) {
	key := cacheKey{pattern, flags}

	if p, ok := m.cache.Get(key); ok {
		return p, nil
	}

	res, err := m.translator.TranslateLiteral(pattern, flags, 0)
	if err != nil {
		return nil, err
	}

	var p *Pattern
	if res != nil {
		p, err = newPattern(res, m.timeout)
		if err != nil {
			return nil, err
		}

		m.logger.Debug("compiled regular expression",
			zap.String("pattern", pattern),
			zap.String("flags", flags),
			zap.String("translated", res.Pattern),
		)
	}

	m.cache.Add(key, p)

	return p, nil
}

// purge clears the pattern cache.
func (m *Module) purge() {
	m.cache.Purge()
}

// compileRequired is like Compile, but fails for untranslatable patterns.
func (m *Module) compileRequired(pattern, flags string) (*Pattern, error) {
	p, err := m.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("regular expression %s cannot be translated", literal(pattern, flags))
	}

	return p, nil
}

// reCompile compiles a regular expression literal into a pattern object, which can be used for
// matching using its `exec`, `test` and other methods.
// In tolerant mode, a pattern, that cannot be translated, compiles to None.
func reCompile(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pattern, flags string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := b.Receiver().(*Module).Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return starlark.None, nil
	}

	return p, nil
}

// reTranslate translates a regular expression literal without compiling it. The result is a
// struct with the fields `source`, `flags`, `pattern` and `groups`; groups is a list of
// `(index, start, name)` tuples.
func reTranslate(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pattern, flags string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "flags?", &flags); err != nil {
		return nil, err
	}

	res, err := b.Receiver().(*Module).translator.TranslateLiteral(pattern, flags, 0)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return starlark.None, nil
	}

	groups := make([]starlark.Value, len(res.Groups))
	for i, g := range res.Groups {
		var name starlark.Value = starlark.None
		if g.Name != "" {
			name = starlark.String(g.Name)
		}

		groups[i] = starlark.Tuple{starlark.MakeInt(g.Index), starlark.MakeInt(g.Start), name}
	}

	return starlarkstruct.FromStringDict(starlark.String("translation"), starlark.StringDict{
		"source":  starlark.String(res.Source),
		"flags":   starlark.String(res.Flags.String()),
		"pattern": starlark.String(res.Pattern),
		"groups":  starlark.NewList(groups),
	}), nil
}

// rePurge clears the regular expression cache.
func rePurge(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	b.Receiver().(*Module).purge()

	return starlark.None, nil
}

// patternParam is a Starlark type, representing the possible types of the pattern parameter:
// a compiled pattern or the pattern string of a literal.
type patternParam struct {
	compiled *Pattern
	raw      string
}

var _ starlark.Unpacker = (*patternParam)(nil)

func (p *patternParam) Unpack(v starlark.Value) error {
	switch t := v.(type) {
	case *Pattern:
		p.compiled = t
	case starlark.String:
		p.raw = string(t)
	default:
		return fmt.Errorf("got %s, want str or pattern", v.Type())
	}

	return nil
}

// compilePattern returns the compiled pattern of the parameter.
// The builtin receiver of the first parameter must be of type `*Module`.
func compilePattern(b *starlark.Builtin, p patternParam, flags string) (*Pattern, error) {
	if p.compiled != nil {
		if flags != "" {
			return nil, errors.New("cannot process flags argument with a compiled pattern")
		}

		return p.compiled, nil
	}

	return b.Receiver().(*Module).compileRequired(p.raw, flags)
}

// reTest checks if the pattern matches the string.
func reTest(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return regexpTest(p, str, 0)
}

// reExec searches the first match of the pattern and returns a corresponding `Match`.
// Returns `None` if no position in the string matches the pattern.
func reExec(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return regexpExec(p, str, 0)
}

// reSearch returns the byte offset of the first match or -1.
func reSearch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return regexpSearch(p, str)
}

// reMatchAll returns a list containing `Match` objects of all matches of the pattern.
// A pattern string is always compiled with the global flag.
func reMatchAll(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}

	if pattern.compiled == nil {
		flags = withFlag(flags, 'g')
	}

	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return regexpMatchAll(p, str)
}

// reReplace replaces the first match, or all matches if the pattern is global, by the
// replacement `repl`, which is either a template string or a function taking a `Match`.
func reReplace(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		repl    starlark.Value
		flags   string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "repl", &repl, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return regexpReplace(thread, p, str, repl)
}

// reSplit splits a string by the matches of a pattern. The captured groups are included in the
// result. If limit is not negative, at most limit elements are returned.
func reSplit(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		limit   = -1
		flags   string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "limit?", &limit, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return regexpSplit(p, str, limit)
}

// reEscape escapes all characters of the string, that have a meaning in regular expressions.
// The result can be used as a pattern, that matches the string literally.
func reEscape(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &s); err != nil {
		return nil, err
	}

	return starlark.String(escapePattern(s)), nil
}
