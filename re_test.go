package jsre

import (
	_ "embed"
	"fmt"
	"strings"
	"testing"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap/zaptest"
)

//go:embed jsre_test.star
var jsreScript string

var fileOptions = syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// testBuiltins are helper functions for test scripts.
var testBuiltins = map[string]*starlark.Builtin{
	"same":           starlark.NewBuiltin("same", sameFunc),
	"eval":           starlark.NewBuiltin("eval", evalFunc),
	"trycatch":       starlark.NewBuiltin("trycatch", tryCatchFunc),
	"capture_output": starlark.NewBuiltin("capture_output", captureOutput),
}

// runScript executes a test script with the module predeclared as `jsre`.
func runScript(t *testing.T, m *Module, filename, src string) {
	t.Helper()

	predeclared := starlark.StringDict{"jsre": m}
	for name, b := range testBuiltins {
		predeclared[name] = b
	}

	_, prog, err := starlark.SourceProgramOptions(&fileOptions, filename, src, predeclared.Has)
	if err != nil {
		t.Fatal(err)
	}

	thread := &starlark.Thread{
		Name: "test " + filename,
		Print: func(_ *starlark.Thread, msg string) {
			t.Log(msg)
		},
	}

	_, err = prog.Init(thread, predeclared)
	if e, ok := err.(*starlark.EvalError); ok {
		t.Fatal(e.Backtrace())
	} else if err != nil {
		t.Fatal(err)
	}
}

func TestModule(t *testing.T) {
	// warnings of untranslatable patterns appear in the test log
	runScript(t, NewModule(WithLogger(zaptest.NewLogger(t))), "jsre_test.star", jsreScript)
}

func TestModuleStrict(t *testing.T) {
	runScript(t, NewModule(WithStrict(true)), "strict.star", `
res, err = trycatch(jsre.compile, r"\p{Script=Greek}", "u")
if err == None or "unsupported regular expression" not in err:
    fail("expected conversion error, got %r" % err)

res, err = trycatch(jsre.translate, r"\1(x)")
if err == None or "forward reference to group 1" not in err:
    fail("expected conversion error, got %r" % err)

if jsre.compile(r"\p{Lu}+", "u").exec("abCDe").group() != "CD":
    fail("property escape")
`)
}

func sameFunc(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &y); err != nil {
		return nil, err
	}

	return starlark.Bool(x == y), nil
}

// evalFunc evaluates an expression. The optional dict contains its global variables.
func evalFunc(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		expr string
		vars *starlark.Dict
	)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &expr, &vars); err != nil {
		return nil, err
	}

	env := starlark.StringDict{}

	if vars != nil {
		for _, item := range vars.Items() {
			name, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("%s: got %s variable name, want str", b.Name(), item[0].Type())
			}

			env[name] = item[1]
		}
	}

	return starlark.EvalOptions(&fileOptions, thread, "eval", expr, env)
}

// tryCatchFunc calls the function and returns the tuple (result, None) or (None, error message).
func tryCatchFunc(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%s: got %d arguments, want at least 1", b.Name(), len(args))
	}

	fn, ok := args[0].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%s: got %s, want callable", b.Name(), args[0].Type())
	}

	res, err := starlark.Call(thread, fn, args[1:], kwargs)
	if err != nil {
		return starlark.Tuple{starlark.None, starlark.String(err.Error())}, nil
	}

	return starlark.Tuple{res, starlark.None}, nil
}

// captureOutput calls the function and returns everything it printed.
func captureOutput(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Callable
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "fn", &fn); err != nil {
		return nil, err
	}

	saved := thread.Print
	defer func() { thread.Print = saved }()

	var output strings.Builder
	thread.Print = func(_ *starlark.Thread, msg string) {
		output.WriteString(msg)
		output.WriteByte('\n')
	}

	if _, err := starlark.Call(thread, fn, nil, nil); err != nil {
		return nil, err
	}

	return starlark.String(output.String()), nil
}
