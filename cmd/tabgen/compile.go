package main

import (
	"fmt"
	"os"

	"github.com/nihei9/tabgen/grammar"
	"github.com/nihei9/tabgen/spec"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	report *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar description into parsing tables",
		Example: `  tabgen compile grammar.json -o tables.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().StringP("report", "r", "", "report file path")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	desc, err := readGrammarDescription(args)
	if err != nil {
		return err
	}

	var opts []grammar.GenerateOption
	if *compileFlags.report != "" {
		opts = append(opts, grammar.EnableReporting())
	}

	tab, report, err := grammar.Generate(desc, opts...)
	if err != nil {
		return err
	}

	err = writeTables(tab, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("cannot write an output file: %w", err)
	}
	if *compileFlags.report != "" {
		err = writeReportFile(report, *compileFlags.report)
		if err != nil {
			return fmt.Errorf("cannot write a report file: %w", err)
		}
	}

	if tab.ShiftReduceConflicts != 0 || tab.ReduceReduceConflicts != 0 {
		fmt.Fprintf(os.Stdout, "%v shift/reduce, %v reduce/reduce conflicts\n", tab.ShiftReduceConflicts, tab.ReduceReduceConflicts)
	}
	if tab.UnusedRules > 0 {
		fmt.Fprintf(os.Stdout, "%v rules never reduced\n", tab.UnusedRules)
	}

	return nil
}

func readGrammarDescription(args []string) (*spec.GrammarDescription, error) {
	if len(args) == 0 {
		return spec.ReadGrammarDescription(os.Stdin)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar description file %s: %w", args[0], err)
	}
	defer f.Close()
	return spec.ReadGrammarDescription(f)
}

func writeTables(tab *spec.GeneratedTables, path string) error {
	if path == "" {
		return tab.Write(os.Stdout)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return tab.Write(f)
}

func writeReportFile(report *spec.Report, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.Write(f)
}
