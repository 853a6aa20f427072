// Command jsre translates ECMAScript regular expressions into the syntax of the regexp2 engine and
// runs Starlark scripts, that use the jsre module.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
)

func main() {
	cmd := newRootCmd()

	err := cmd.Execute()
	if err == nil {
		return
	}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		fmt.Fprintln(os.Stderr, evalErr.Backtrace())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}

	os.Exit(1)
}
