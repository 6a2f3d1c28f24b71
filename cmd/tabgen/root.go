package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tabgen",
	Short: "Generate LALR(1) parsing tables from a grammar description",
	Long: `tabgen provides three features:
- Generates compact LALR(1) parsing tables from a grammar description.
- Prints a generation report in readable format.
- Parses a token stream with generated tables.
  This feature is primarily aimed at debugging the grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}
