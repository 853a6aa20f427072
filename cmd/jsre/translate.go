package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/magnetde/starlark-jsre/regex"
)

// translation is the output of the translate command.
type translation struct {
	Source  string        `yaml:"source"`
	Flags   string        `yaml:"flags"`
	Pattern string        `yaml:"pattern"`
	Groups  []groupInfo   `yaml:"groups,omitempty"`
	Matches []matchResult `yaml:"matches,omitempty"`
}

type groupInfo struct {
	Index  int    `yaml:"index"`
	Start  int    `yaml:"start"`
	Name   string `yaml:"name,omitempty"`
	Target string `yaml:"target,omitempty"`
}

// matchResult contains the byte spans of the groups of the first match. Spans is empty, if there
// is no match, and contains an empty span for groups, that did not participate.
type matchResult struct {
	Input string  `yaml:"input"`
	Spans [][]int `yaml:"spans,flow"`
}

func newTranslateCmd(a *app) *cobra.Command {
	var (
		flags  string
		inputs []string
	)

	cmd := &cobra.Command{
		Use:   "translate PATTERN",
		Short: "Translate a regular expression and print the result as YAML.",
		Long: `Translate the regular expression literal /PATTERN/FLAGS into the syntax of the
regexp2 engine. The output contains the translated pattern and the capturing
groups. With --input, the pattern is also matched against the given strings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.translate(args[0], flags, inputs)
			if err != nil || t == nil {
				return err
			}

			out, err := yaml.Marshal(t)
			if err != nil {
				return errors.Wrap(err, "marshal translation")
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&flags, "flags", "f", "", "Flags of the regular expression.")
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Match the pattern against this string; can be repeated.")

	return cmd
}

// translate translates the pattern and matches the inputs. In tolerant mode, a pattern, that
// cannot be translated, is logged and nil is returned.
func (a *app) translate(pattern, flags string, inputs []string) (*translation, error) {
	tr := regex.NewTranslator(
		regex.WithPolicy(a.policy()),
		regex.WithReporter(regex.ZapReporter{Logger: a.logger}),
	)

	res, err := tr.TranslateLiteral(pattern, flags, 0)
	if err != nil || res == nil {
		return nil, err
	}

	t := translation{
		Source:  res.Source,
		Flags:   res.Flags.String(),
		Pattern: res.Pattern,
	}

	for _, g := range res.Groups {
		t.Groups = append(t.Groups, groupInfo{
			Index:  g.Index,
			Start:  g.Start,
			Name:   g.Name,
			Target: g.TargetName,
		})
	}

	if len(inputs) == 0 {
		return &t, nil
	}

	re, err := regex.Compile(res, regex.WithMatchTimeout(a.timeout()))
	if err != nil {
		return nil, err
	}

	for _, s := range inputs {
		in := regex.NewInput(s)

		loc, err := re.FindAt(in, 0, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "match %q", s)
		}

		m := matchResult{Input: s}

		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				m.Spans = append(m.Spans, []int{})
			} else {
				m.Spans = append(m.Spans, []int{in.ByteOffset(loc[i]), in.ByteOffset(loc[i+1])})
			}
		}

		t.Matches = append(t.Matches, m)
	}

	return &t, nil
}
