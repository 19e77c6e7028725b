package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandrolain/layoutexpr"
)

func newFmtCommand(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt [expression...]",
		Short: "Print expressions in canonical form",
		Long: `Print each expression in canonical form: operators spaced, redundant
parentheses removed, string literals double-quoted.

With --check nothing is printed for canonical input and the command fails
when any expression would change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := 0
			for _, source := range args {
				out, err := layoutexpr.Format(source)
				if err != nil {
					return fmt.Errorf("%q: %w", source, err)
				}
				if !check {
					fmt.Fprintln(cmd.OutOrStdout(), out)
					continue
				}
				if out != source {
					changed++
					a.logger.Debug("not canonical", "source", source, "canonical", out)
					fmt.Fprintf(cmd.OutOrStdout(), "%s => %s\n", source, out)
				}
			}
			if changed > 0 {
				return fmt.Errorf("%d expression(s) not in canonical form", changed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "fail if any expression is not canonical")
	return cmd
}
