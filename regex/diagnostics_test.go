package regex

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/v3/assert"
)

func TestTranslateLiteralTolerant(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tr := NewTranslator(WithReporter(ZapReporter{Logger: zap.New(core)}))

	res, err := tr.TranslateLiteral(`\p{Script=Greek}`, "u", 1)
	assert.NilError(t, err)
	assert.Assert(t, res == nil)

	entries := logs.AllUntimed()
	assert.Equal(t, len(entries), 1)
	assert.Equal(t, entries[0].Message, "regular expression cannot be translated")
	assert.DeepEqual(t, entries[0].ContextMap(), map[string]interface{}{
		"pattern": `\p{Script=Greek}`,
		"flags":   "u",
		"offset":  int64(1),
		"reason":  `unsupported property escape \p{Script=Greek}`,
	})

	// syntax errors are never tolerated
	_, err = tr.TranslateLiteral(`(`, "", 0)
	assert.Assert(t, IsSyntaxError(err))
	assert.Equal(t, logs.Len(), 1)

	res, err = tr.TranslateLiteral(`a`, "g", 0)
	assert.NilError(t, err)
	assert.Equal(t, res.Pattern, "a")
}

func TestTranslateLiteralStrict(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewTranslator(WithPolicy(Strict), WithReporter(ZapReporter{Logger: zap.New(core)}))

	_, err := tr.TranslateLiteral(`a`, "v", 0)
	assert.Assert(t, IsConversionError(err))
	assert.Error(t, err, "unsupported regular expression: unsupported flag at position 2")
	assert.Equal(t, logs.Len(), 0)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, Tolerant.String(), "tolerant")
	assert.Equal(t, Strict.String(), "strict")
}
