package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE [ARG...]",
		Short: "Run a Starlark script with the jsre module.",
		Long: `Run a Starlark script. The script can use the predeclared module jsre and
the list argv, which contains the remaining arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read script")
			}

			argv := make([]starlark.Value, len(args)-1)
			for i, s := range args[1:] {
				argv[i] = starlark.String(s)
			}

			predeclared := starlark.StringDict{
				"jsre": a.module(),
				"argv": starlark.NewList(argv),
			}

			opts := syntax.FileOptions{
				Set:             true,
				While:           true,
				TopLevelControl: true,
				GlobalReassign:  true,
				Recursion:       true,
			}

			out := cmd.OutOrStdout()
			thread := &starlark.Thread{
				Name: "jsre run",
				Print: func(_ *starlark.Thread, msg string) {
					fmt.Fprintln(out, msg)
				},
			}

			a.logger.Debug("running script", zap.String("file", args[0]))

			_, err = starlark.ExecFileOptions(&opts, thread, args[0], src, predeclared)
			return err
		},
	}
}
