package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/magnetde/starlark-jsre/coderange"
)

// codePointSet is the output of the category command.
type codePointSet struct {
	Set      string          `yaml:"set"`
	Ranges   string          `yaml:"ranges"`
	Size     int             `yaml:"size"`
	Entries  int             `yaml:"entries"`
	Contains map[string]bool `yaml:"contains,omitempty"`
}

func newCategoryCmd() *cobra.Command {
	var chars string

	cmd := &cobra.Command{
		Use:   "category SET",
		Short: "Print a set of code points as YAML.",
		Long: `Print the code points of SET, which is either a general category, like "Lu" or
"Letter", or a list of ranges, like "[U+0041..U+005A U+005F]". With --chars,
the membership of each given character is tested.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := describeSet(args[0], chars)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(s)
			if err != nil {
				return errors.Wrap(err, "marshal set")
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&chars, "chars", "c", "", "Test the membership of these characters.")

	return cmd
}

// describeSet resolves the set and tests the membership of chars with its encoded table.
func describeSet(set, chars string) (*codePointSet, error) {
	var (
		rs  []coderange.Range
		tbl *coderange.Table
	)

	if strings.HasPrefix(strings.TrimSpace(set), "[") {
		parsed, err := coderange.Parse(set)
		if err != nil {
			return nil, errors.Wrap(err, "invalid set")
		}

		rs = coderange.Normalize(parsed)
		tbl = coderange.Encode(rs)
	} else {
		cat, ok := coderange.LookupCategory(set)
		if !ok {
			return nil, errors.Errorf("unknown general category %q", set)
		}

		cache := coderange.NewCategoryCache(nil)
		rs = cache.Get(cat)
		tbl = cache.Table(cat)
	}

	s := codePointSet{
		Set:     set,
		Ranges:  coderange.Format(rs),
		Entries: tbl.Len(),
	}

	for _, r := range rs {
		s.Size += r.Len()
	}

	for _, c := range chars {
		if s.Contains == nil {
			s.Contains = make(map[string]bool)
		}
		s.Contains[string(c)] = tbl.Contains(c)
	}

	return &s, nil
}
