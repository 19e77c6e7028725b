package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandrolain/layoutexpr/pkg/evaluator"
	"github.com/sandrolain/layoutexpr/pkg/ext"
)

func newEvalCommand(a *app) *cobra.Command {
	var (
		constants  []string
		anyEngine  bool
		noOptimize bool
		withExt    bool
	)

	cmd := &cobra.Command{
		Use:   "eval [expression]",
		Short: "Evaluate an expression",
		Long: `Evaluate an expression and print its value.

Constants come from the config file and from --const flags, which win.
With --any, strings, booleans and string literals are allowed.`,
		Example: `  layoutexpr eval "max(width / 2, 100)" --const width=320
  layoutexpr eval --any --bool "n == 1 ? 'item' : 'items'" --const n=3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			consts, err := parseConstants(a.cfg.Constants, constants)
			if err != nil {
				return err
			}
			opts := a.evalOptions(a.cfg.Optimize && !noOptimize)
			if withExt {
				opts = append(opts, ext.WithAll())
			}

			var result any
			if anyEngine {
				expr, err := evaluator.CompileAny(args[0], append(opts, evaluator.WithAnyConstants(consts))...)
				if err != nil {
					return fmt.Errorf("parse: %w", err)
				}
				if result, err = expr.Evaluate(); err != nil {
					return fmt.Errorf("evaluate: %w", err)
				}
			} else {
				numeric, err := numericConstants(consts)
				if err != nil {
					return err
				}
				expr, err := evaluator.Compile(args[0], append(opts, evaluator.WithConstants(numeric))...)
				if err != nil {
					return fmt.Errorf("parse: %w", err)
				}
				a.logger.Debug("compiled expression", "canonical", expr.String())
				if result, err = expr.Evaluate(); err != nil {
					return fmt.Errorf("evaluate: %w", err)
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatValue(result))
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&constants, "const", "c", nil, "constant as name=value (repeatable)")
	cmd.Flags().BoolVar(&anyEngine, "any", false, "use the boxed-value engine (strings, booleans)")
	cmd.Flags().Bool("bool", false, "enable boolean symbols (true, false, comparisons, ?:)")
	cmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "disable constant folding")
	cmd.Flags().BoolVar(&withExt, "ext", false, "enable the extension symbol libraries")
	_ = a.v.BindPFlag("bool_symbols", cmd.Flags().Lookup("bool"))

	return cmd
}
