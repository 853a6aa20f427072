package regex

import (
	"sync"

	"github.com/magnetde/starlark-jsre/coderange"
	"github.com/magnetde/starlark-jsre/util"
)

// CaptureGroup describes a capturing group of a pattern.
type CaptureGroup struct {
	Index      int    // group number, starting at 1
	Start      int    // offset of the opening parenthesis in the enclosing source
	Name       string // empty for unnamed groups
	TargetName string // name of the group in the target pattern; empty for unnamed groups
}

// Result is a translated regular expression literal.
type Result struct {
	Source  string // the ECMAScript pattern
	Pattern string // the pattern in the syntax of the target engine
	Flags   Flags
	Groups  []CaptureGroup
}

// NumGroups returns the number of capturing groups.
func (r *Result) NumGroups() int {
	return len(r.Groups)
}

// GroupIndex returns the number of the first group with the given name.
// If no such group exists, -1 is returned.
func (r *Result) GroupIndex(name string) int {
	for _, g := range r.Groups {
		if g.Name == name {
			return g.Index
		}
	}
	return -1
}

// GroupNames returns the distinct group names in the order of their first occurrence.
func (r *Result) GroupNames() []string {
	var names []string
	seen := make(map[string]bool)

	for _, g := range r.Groups {
		if g.Name != "" && !seen[g.Name] {
			seen[g.Name] = true
			names = append(names, g.Name)
		}
	}

	return names
}

// Translator translates ECMAScript regular expression literals.
// A Translator is safe for concurrent use. It holds the general category cache, which is filled
// lazily by the patterns, that use property escapes.
type Translator struct {
	mu         sync.Mutex
	categories *coderange.CategoryCache
	reporter   Reporter
	policy     Policy
}

// TranslatorOption configures a Translator.
type TranslatorOption func(t *Translator)

// WithOracle sets the source of the general categories.
func WithOracle(o coderange.Oracle) TranslatorOption {
	return func(t *Translator) {
		t.categories = coderange.NewCategoryCache(o)
	}
}

// WithReporter sets the receiver of the diagnostics of TranslateLiteral.
func WithReporter(r Reporter) TranslatorOption {
	return func(t *Translator) {
		t.reporter = r
	}
}

// WithPolicy sets the handling of conversion errors in TranslateLiteral.
func WithPolicy(p Policy) TranslatorOption {
	return func(t *Translator) {
		t.policy = p
	}
}

// NewTranslator returns a new translator.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{
		reporter: NopReporter{},
		policy:   Tolerant,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.categories == nil {
		t.categories = coderange.NewCategoryCache(nil)
	}

	return t
}

// category returns the ranges of a general category.
func (t *Translator) category(c coderange.Category) []rng {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.categories.Get(c)
}

// Translate translates the pattern and flags of a regular expression literal `/pattern/flags`.
// offset is the position of the first unit of the pattern in the enclosing source; all error
// offsets are relative to the enclosing source. The flags are expected directly after the closing
// slash.
// The returned error is either a *SyntaxError or a *ConversionError.
func (t *Translator) Translate(pattern, flags string, offset int) (*Result, error) {
	flagsOffset := offset + util.UTF16Len(pattern) + 1

	f, err := ParseFlags(flags, flagsOffset)
	if err != nil {
		return nil, err
	}
	if f.Has(FlagUnicodeSets) {
		return nil, newConversionError("unsupported flag", flagsOffset)
	}

	var src source
	src.init(pattern, offset)

	st, err := validate(&src, f.Has(FlagUnicode))
	if err != nil {
		return nil, err
	}

	names, err := assignTargetNames(st.groups)
	if err != nil {
		return nil, err
	}

	src.seek(0)

	s, err := rewrite(&src, f, st, names, t.category)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Source:  pattern,
		Pattern: s,
		Flags:   f,
		Groups:  st.groups,
	}

	return res, nil
}

var (
	defaultTranslator     *Translator
	defaultTranslatorOnce sync.Once
)

// Translate translates a regular expression literal with a shared default translator.
// Error offsets are relative to the start of the pattern.
func Translate(pattern, flags string) (*Result, error) {
	defaultTranslatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})

	return defaultTranslator.Translate(pattern, flags, 0)
}
