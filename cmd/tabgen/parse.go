package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/tabgen/driver"
	"github.com/nihei9/tabgen/spec"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source    *string
	onlyParse *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <tables file path>",
		Short:   "Parse a stream of whitespace-separated terminal names",
		Example: `  echo 'n + n' | tabgen parse tables.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.onlyParse = cmd.Flags().Bool("only-parse", false, "when this option is enabled, the parser doesn't build a tree")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	tab, err := readTables(args[0])
	if err != nil {
		return fmt.Errorf("cannot read generated tables: %w", err)
	}

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	var opts []driver.ParserOption
	if !*parseFlags.onlyParse {
		opts = append(opts, driver.MakeCST())
	}

	p, err := driver.NewParser(tab, driver.NewNameTokenStream(tab, src), opts...)
	if err != nil {
		return err
	}

	err = p.Parse()
	if err != nil {
		return err
	}

	if *parseFlags.onlyParse {
		fmt.Fprintln(os.Stdout, "accepted")
		return nil
	}

	driver.PrintTree(os.Stdout, p.CST())

	return nil
}

func readTables(path string) (*spec.GeneratedTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the tables file %s: %w", path, err)
	}
	defer f.Close()
	return spec.ReadGeneratedTables(f)
}
