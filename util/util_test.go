package util

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestIsASCIIString(t *testing.T) {
	assert.Assert(t, IsASCIIString(""))
	assert.Assert(t, IsASCIIString("abc\x7f"))
	assert.Assert(t, !IsASCIIString("aé"))
}

func TestAppendHex(t *testing.T) {
	assert.Equal(t, string(AppendHex(nil, 0x2F, 2)), "2f")
	assert.Equal(t, string(AppendHex([]byte(`\u`), 0xD83D, 4)), `\ud83d`)
}

func TestCodePoints(t *testing.T) {
	lone := FromUTF16([]rune{0xDC00})
	assert.DeepEqual(t, CodePoints("a😀"+lone), []rune{'a', 0x1F600, 0xDC00})
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", `/(?:)/g`},
		{"a/b", `/a\/b/g`},
		{`a\/b`, `/a\/b/g`},
		{"[/]", `/[/]/g`},
		{`[\]/]/`, `/[\]/]\//g`},
		{"a\nb", `/a\nb/g`},
		{"a\\\nb", `/a\nb/g`},
		{"\u2028", `/\u2028/g`},
		{"a\\\u2029", `/a\u2029/g`},
	}

	for _, test := range tests {
		assert.Equal(t, Literal(test.source, "g"), test.want)
	}
}
