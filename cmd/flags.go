package cmd

import (
	"fmt"
	"strings"

	"github.com/soulgarden/bfx-postonly/flags"
	"github.com/spf13/cobra"
)

func newFlagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags [NAME...]",
		Short: "List order flags, or combine the named ones into a bitmask",
		RunE: func(cmd *cobra.Command, names []string) error {
			out := cmd.OutOrStdout()

			if len(names) == 0 {
				for _, name := range flags.Names() {
					v, err := flags.Value(name)
					if err != nil {
						return err
					}

					fmt.Fprintf(out, "%-12s %d\n", name, v)
				}

				return nil
			}

			v, err := flags.Combine(names...)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%d %s\n", v, strings.Join(flags.Describe(v), "|"))

			return nil
		},
	}
}
