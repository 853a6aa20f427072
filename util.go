package jsre

import (
	"strings"

	"github.com/magnetde/starlark-jsre/util"
)

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func digit(b byte) int {
	return int(b - '0')
}

// withFlag adds the flag character to the flags, if it is missing.
func withFlag(flags string, c byte) string {
	if strings.IndexByte(flags, c) >= 0 {
		return flags
	}
	return flags + string(c)
}

// literal returns the regular expression literal of the pattern and flags.
func literal(pattern, flags string) string {
	return util.Literal(pattern, flags)
}
