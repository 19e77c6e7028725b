// Command layoutexpr evaluates, formats and inspects layout expressions.
package main

import (
	"fmt"
	"os"

	"github.com/sandrolain/layoutexpr/cmd/layoutexpr/commands"
)

func main() {
	// Execute the root command
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
