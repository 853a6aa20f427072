package regex

import (
	"fmt"
	"os"
	"testing"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type translateCase struct {
	Pattern string     `yaml:"pattern"`
	Flags   string     `yaml:"flags"`
	Output  *string    `yaml:"output"`
	Match   []string   `yaml:"match"`
	NoMatch []string   `yaml:"nomatch"`
	Exec    *execCase  `yaml:"exec"`
	Error   *errorCase `yaml:"error"`
}

type execCase struct {
	Input  string    `yaml:"input"`
	Index  int       `yaml:"index"`
	Groups []*string `yaml:"groups"`
}

type errorCase struct {
	Kind   string `yaml:"kind"`
	Msg    string `yaml:"msg"`
	Offset int    `yaml:"offset"`
}

func (tc *translateCase) name() string {
	return fmt.Sprintf("/%s/%s", tc.Pattern, tc.Flags)
}

func loadTranslateCases(t *testing.T) []translateCase {
	t.Helper()

	data, err := os.ReadFile("testdata/translate.yaml")
	assert.NilError(t, err)

	var cases []translateCase
	assert.NilError(t, yaml.UnmarshalStrict(data, &cases))
	assert.Assert(t, len(cases) > 0)

	return cases
}

func TestTranslateCases(t *testing.T) {
	tr := NewTranslator()

	for _, tc := range loadTranslateCases(t) {
		tc := tc
		t.Run(tc.name(), func(t *testing.T) {
			res, err := tr.Translate(tc.Pattern, tc.Flags, 0)

			if tc.Error != nil {
				checkError(t, err, tc.Error)
				return
			}

			assert.NilError(t, err)
			if tc.Output != nil {
				assert.Equal(t, res.Pattern, *tc.Output)
			}

			if len(tc.Match) == 0 && len(tc.NoMatch) == 0 && tc.Exec == nil {
				return
			}

			re, err := Compile(res)
			assert.NilError(t, err, "translated: %s", res.Pattern)

			for _, s := range tc.Match {
				a, err := re.FindAt(NewInput(s), 0, nil)
				assert.NilError(t, err)
				assert.Assert(t, a != nil, "%q must match %s", s, res.Pattern)
			}

			for _, s := range tc.NoMatch {
				a, err := re.FindAt(NewInput(s), 0, nil)
				assert.NilError(t, err)
				assert.Assert(t, a == nil, "%q must not match %s", s, res.Pattern)
			}

			if tc.Exec != nil {
				checkExec(t, re, tc.Exec)
			}
		})
	}
}

func checkError(t *testing.T, err error, want *errorCase) {
	t.Helper()

	assert.Assert(t, err != nil, "expected %s error %q", want.Kind, want.Msg)

	switch want.Kind {
	case "syntax":
		var se *SyntaxError
		assert.Assert(t, errors.As(err, &se), "unexpected error: %v", err)
		assert.Equal(t, se.Msg, want.Msg)
		assert.Equal(t, se.Offset, want.Offset)
	case "conversion":
		var ce *ConversionError
		assert.Assert(t, errors.As(err, &ce), "unexpected error: %v", err)
		assert.Equal(t, ce.Msg, want.Msg)
		assert.Equal(t, ce.Offset, want.Offset)
	default:
		t.Fatalf("unknown error kind %q", want.Kind)
	}
}

func checkExec(t *testing.T, re *Regexp, want *execCase) {
	t.Helper()

	in := NewInput(want.Input)
	a, err := re.FindAt(in, 0, nil)
	assert.NilError(t, err)
	assert.Assert(t, a != nil)
	assert.Equal(t, a[0], want.Index)

	var groups []*string
	for i := 1; i <= re.NumGroups(); i++ {
		if a[2*i] < 0 {
			groups = append(groups, nil)
			continue
		}

		s := in.Substring(a[2*i], a[2*i+1])
		groups = append(groups, &s)
	}

	assert.DeepEqual(t, groups, want.Groups)
}

func TestTranslateOffset(t *testing.T) {
	tr := NewTranslator()

	_, err := tr.Translate("a**", "", 10)
	var se *SyntaxError
	assert.Assert(t, errors.As(err, &se))
	assert.Equal(t, se.Offset, 12)
	assert.Equal(t, err.Error(), "invalid regular expression: nothing to repeat at position 12")

	// the pattern "😀" has two units, the flags start after the closing slash
	_, err = tr.Translate("😀", "gg", 5)
	assert.Assert(t, errors.As(err, &se))
	assert.Equal(t, se.Offset, 8)

	res, err := tr.Translate("x(y)", "g", 3)
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Groups, []CaptureGroup{{Index: 1, Start: 4}})
}

func TestTranslateGroups(t *testing.T) {
	res, err := Translate(`(a)(?:b)(?<x>c)((?<é>d)|(?<y>e))(?=f)|(?<x>g)`, "")
	assert.NilError(t, err)

	want := []CaptureGroup{
		{Index: 1, Start: 0},
		{Index: 2, Start: 8, Name: "x", TargetName: "x"},
		{Index: 3, Start: 15},
		{Index: 4, Start: 16, Name: "é", TargetName: "_XC3A9"},
		{Index: 5, Start: 24, Name: "y", TargetName: "y"},
		{Index: 6, Start: 38, Name: "x", TargetName: "x"},
	}
	assert.DeepEqual(t, res.Groups, want)

	assert.Equal(t, res.NumGroups(), 6)
	assert.Equal(t, res.GroupIndex("x"), 2)
	assert.Equal(t, res.GroupIndex("é"), 4)
	assert.Equal(t, res.GroupIndex("z"), -1)
	assert.DeepEqual(t, res.GroupNames(), []string{"x", "é", "y"})
}

func TestTranslateResult(t *testing.T) {
	res, err := Translate("a.b", "gims")
	assert.NilError(t, err)
	assert.Equal(t, res.Source, "a.b")
	assert.Equal(t, res.Flags, FlagGlobal|FlagIgnoreCase|FlagMultiline|FlagDotAll)
	assert.Check(t, is.Len(res.Groups, 0))
}

func TestTranslateConcurrent(t *testing.T) {
	tr := NewTranslator()

	done := make(chan error)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := tr.Translate(`\p{Lu}\p{Ll}`, "u", 0)
			done <- err
		}()
	}

	for i := 0; i < 8; i++ {
		assert.NilError(t, <-done)
	}
}
