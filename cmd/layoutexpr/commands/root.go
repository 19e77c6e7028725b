package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandrolain/layoutexpr"
	"github.com/sandrolain/layoutexpr/pkg/evaluator"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *Config
	logger     *slog.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "layoutexpr",
		Short:         "Evaluate, format and inspect layout expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging on stderr")
	_ = a.v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	// Add subcommands
	rootCmd.AddCommand(
		newEvalCommand(a),
		newFmtCommand(a),
		newSymbolsCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.logger.Debug("configuration loaded",
		"file", a.v.ConfigFileUsed(),
		"constants", len(cfg.Constants),
		"bool_symbols", cfg.BoolSymbols,
		"optimize", cfg.Optimize)
	return nil
}

// evalOptions translates the configuration into evaluator options.
func (a *app) evalOptions(optimize bool) []evaluator.EvalOption {
	return []evaluator.EvalOption{
		evaluator.WithBooleanSymbols(a.cfg.BoolSymbols),
		evaluator.WithOptimization(optimize),
		evaluator.WithDebug(a.cfg.Debug),
		evaluator.WithLogger(a.logger),
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), layoutexpr.Version())
			return err
		},
	}
}

// formatValue renders an evaluation result for the terminal.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return types.FormatNumber(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
