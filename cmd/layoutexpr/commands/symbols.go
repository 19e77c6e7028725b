package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandrolain/layoutexpr/pkg/evaluator"
)

func newSymbolsCommand(a *app) *cobra.Command {
	var variables bool

	cmd := &cobra.Command{
		Use:   "symbols [expression]",
		Short: "List the symbols an expression references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := evaluator.CompileAny(args[0], evaluator.WithOptimization(false), evaluator.WithLogger(a.logger))
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			syms := expr.Symbols()
			if variables {
				for _, name := range syms.Variables() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			for _, sym := range syms.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), sym.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&variables, "variables", false, "list variable names only")
	return cmd
}
