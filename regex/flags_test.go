package regex

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		s    string
		want Flags
	}{
		{"", 0},
		{"g", FlagGlobal},
		{"gimsuy", FlagGlobal | FlagIgnoreCase | FlagMultiline | FlagDotAll | FlagUnicode | FlagSticky},
		{"yusmig", FlagGlobal | FlagIgnoreCase | FlagMultiline | FlagDotAll | FlagUnicode | FlagSticky},
		{"dv", FlagHasIndices | FlagUnicodeSets},
		{"vymsigd", FlagHasIndices | FlagGlobal | FlagIgnoreCase | FlagMultiline | FlagDotAll | FlagUnicodeSets | FlagSticky},
		{"iy", FlagIgnoreCase | FlagSticky},
	}

	for _, test := range tests {
		f, err := ParseFlags(test.s, 0)
		assert.NilError(t, err, "flags %q", test.s)
		assert.Equal(t, f, test.want, "flags %q", test.s)
	}
}

func TestParseFlagsInvalid(t *testing.T) {
	for _, s := range []string{"gg", "x", "uv", "vu", "dgimsuvy", "G", " ", "gimsuyg"} {
		_, err := ParseFlags(s, 7)

		se, ok := err.(*SyntaxError)
		assert.Assert(t, ok, "flags %q: %v", s, err)
		assert.Equal(t, se.Msg, "invalid regular expression flags")
		assert.Equal(t, se.Offset, 7)
	}
}

func TestFlagsString(t *testing.T) {
	f, err := ParseFlags("yusmigd", 0)
	assert.NilError(t, err)
	assert.Equal(t, f.String(), "dgimsuy")

	assert.Equal(t, Flags(0).String(), "")
	assert.Equal(t, (FlagSticky | FlagUnicodeSets).String(), "vy")
}

func TestFlagsHas(t *testing.T) {
	f := FlagGlobal | FlagUnicode

	assert.Assert(t, f.Has(FlagGlobal))
	assert.Assert(t, f.Has(FlagGlobal|FlagUnicode))
	assert.Assert(t, !f.Has(FlagGlobal|FlagSticky))
	assert.Assert(t, f.Has(0))
}
