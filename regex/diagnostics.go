package regex

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Policy determines how conversion errors of regular expression literals are handled.
type Policy uint8

const (
	// Tolerant reports conversion errors and yields no result for the literal.
	Tolerant Policy = iota

	// Strict returns conversion errors like syntax errors.
	Strict
)

// String returns the name of the policy.
func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "tolerant"
}

// Reporter receives the diagnostics of regular expression literals, that are not returned as errors.
type Reporter interface {
	ReportConversion(pattern, flags string, err *ConversionError)
}

// NopReporter discards all diagnostics.
type NopReporter struct{}

func (NopReporter) ReportConversion(string, string, *ConversionError) {}

// ZapReporter logs diagnostics as warnings.
type ZapReporter struct {
	Logger *zap.Logger
}

// ReportConversion logs the conversion error.
func (r ZapReporter) ReportConversion(pattern, flags string, err *ConversionError) {
	r.Logger.Warn("regular expression cannot be translated",
		zap.String("pattern", pattern),
		zap.String("flags", flags),
		zap.Int("offset", err.Offset),
		zap.String("reason", err.Msg),
	)
}

// TranslateLiteral translates a regular expression literal like Translate, but applies the policy
// of the translator to conversion errors: in tolerant mode, they are passed to the reporter and
// both the result and the error are nil. Syntax errors are always returned.
func (t *Translator) TranslateLiteral(pattern, flags string, offset int) (*Result, error) {
	res, err := t.Translate(pattern, flags, offset)
	if err == nil {
		return res, nil
	}

	var ce *ConversionError
	if t.policy == Tolerant && errors.As(err, &ce) {
		t.reporter.ReportConversion(pattern, flags, ce)
		return nil, nil
	}

	return nil, err
}
