package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	// Constants are predefined names. Viper lowercases keys read from files.
	Constants   map[string]any
	BoolSymbols bool
	Optimize    bool
	Debug       bool
}

// LoadConfig reads configuration from the optional file at configPath, the
// LAYOUTEXPR_* environment and any flags bound to v.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	v.SetEnvPrefix("LAYOUTEXPR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("optimize", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		Constants:   v.GetStringMap("constants"),
		BoolSymbols: v.GetBool("bool_symbols"),
		Optimize:    v.GetBool("optimize"),
		Debug:       v.GetBool("debug"),
	}, nil
}

// parseConstants merges name=value pairs over base. Values that look like
// numbers or booleans are converted; everything else stays a string.
func parseConstants(base map[string]any, pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(base)+len(pairs))
	for k, v := range base {
		out[k] = v
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid constant %q: expected name=value", pair)
		}
		out[name] = parseValue(value)
	}
	return out, nil
}

func parseValue(s string) any {
	if f, err := cast.ToFloat64E(s); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// numericConstants converts every constant to float64.
func numericConstants(constants map[string]any) (map[string]float64, error) {
	out := make(map[string]float64, len(constants))
	for name, v := range constants {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w (use --any for non-numeric values)", name, err)
		}
		out[name] = f
	}
	return out, nil
}
