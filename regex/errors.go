package regex

import (
	"fmt"

	"github.com/pkg/errors"
)

// SyntaxError is returned, if a pattern or its flags are not valid ECMAScript syntax.
// Offset is the position of the error in UTF-16 code units, relative to the start of the
// enclosing source.
type SyntaxError struct {
	Msg    string
	Offset int
}

// ConversionError is returned, if a pattern is valid ECMAScript syntax, but cannot be expressed
// in the syntax of the target engine.
type ConversionError struct {
	Msg    string
	Offset int
}

func newSyntaxError(msg string, offset int) *SyntaxError {
	return &SyntaxError{Msg: msg, Offset: offset}
}

func newConversionError(msg string, offset int) *ConversionError {
	return &ConversionError{Msg: msg, Offset: offset}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid regular expression: %s at position %d", e.Msg, e.Offset)
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("unsupported regular expression: %s at position %d", e.Msg, e.Offset)
}

// IsSyntaxError checks if err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var e *SyntaxError
	return errors.As(err, &e)
}

// IsConversionError checks if err is or wraps a *ConversionError.
func IsConversionError(err error) bool {
	var e *ConversionError
	return errors.As(err, &e)
}
