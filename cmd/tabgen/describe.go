package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/tabgen/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a report file in readable format",
		Example: `  tabgen describe report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("cannot open the report file %s: %w", args[0], err)
	}
	defer f.Close()

	report, err := spec.ReadReport(f)
	if err != nil {
		return err
	}

	writeReport(os.Stdout, report)

	return nil
}

func writeReport(w io.Writer, report *spec.Report) {
	symName := func(sym int) string {
		for _, t := range report.Terminals {
			if t.Number == sym {
				return t.Name
			}
		}
		for _, nt := range report.NonTerminals {
			if nt.Number == sym {
				return nt.Name
			}
		}
		return "$accept"
	}

	prodToString := func(prod *spec.ProductionReport, dot int) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%v →", symName(prod.LHS))
		for i, sym := range prod.RHS {
			if i == dot {
				fmt.Fprintf(&b, " ・")
			}
			fmt.Fprintf(&b, " %v", symName(sym))
		}
		if dot == len(prod.RHS) {
			fmt.Fprintf(&b, " ・")
		}
		return b.String()
	}

	srCount := 0
	rrCount := 0
	for _, state := range report.States {
		srCount += len(state.SRConflict)
		rrCount += len(state.RRConflict)
	}

	fmt.Fprintf(w, "# Conflicts\n\n")
	if srCount > 0 || rrCount > 0 {
		fmt.Fprintf(w, "%v shift/reduce, %v reduce/reduce conflicts\n\n", srCount, rrCount)
	} else {
		fmt.Fprintf(w, "no conflicts\n\n")
	}

	fmt.Fprintf(w, "# Terminals\n\n%v symbols:\n\n", len(report.Terminals))
	for _, t := range report.Terminals {
		if t.Precedence > 0 {
			fmt.Fprintf(w, "%4v %v (prec: %v, assoc: %v)\n", t.Number, t.Name, t.Precedence, t.Associativity)
		} else {
			fmt.Fprintf(w, "%4v %v\n", t.Number, t.Name)
		}
	}

	fmt.Fprintf(w, "\n# Productions\n\n%v productions:\n\n", len(report.Productions))
	for _, prod := range report.Productions {
		fmt.Fprintf(w, "%4v %v\n", prod.Number, prodToString(prod, -1))
	}

	fmt.Fprintf(w, "\n# States\n\n%v states:\n\n", len(report.States))
	for _, state := range report.States {
		fmt.Fprintf(w, "state %v\n", state.Number)

		for _, item := range state.Kernel {
			fmt.Fprintf(w, "    %v\n", prodToString(report.Productions[item.Production], item.Dot))
		}
		fmt.Fprintf(w, "\n")

		for _, tr := range state.Shift {
			fmt.Fprintf(w, "    shift  %4v on %v\n", tr.State, symName(tr.Symbol))
		}
		for _, red := range state.Reduce {
			for _, la := range red.LookAhead {
				fmt.Fprintf(w, "    reduce %4v on %v\n", red.Production, symName(la))
			}
		}
		for _, tr := range state.GoTo {
			fmt.Fprintf(w, "    goto   %4v on %v\n", tr.State, symName(tr.Symbol))
		}
		if state.DefaultReduction > 0 {
			fmt.Fprintf(w, "    reduce %4v by default\n", state.DefaultReduction)
		}

		for _, c := range state.SRConflict {
			fmt.Fprintf(w, "    shift/reduce conflict (shift %v, reduce %v) on %v\n", c.State, c.Production, symName(c.Symbol))
			switch {
			case c.AdoptedState != nil:
				fmt.Fprintf(w, "        adopted shift  %4v\n", *c.AdoptedState)
			case c.AdoptedProduction != nil:
				fmt.Fprintf(w, "        adopted reduce %4v\n", *c.AdoptedProduction)
			}
		}
		for _, c := range state.RRConflict {
			fmt.Fprintf(w, "    reduce/reduce conflict (reduce %v and %v) on %v\n", c.Production1, c.Production2, symName(c.Symbol))
			fmt.Fprintf(w, "        adopted reduce %4v\n", c.AdoptedProduction)
		}

		fmt.Fprintf(w, "\n")
	}
}
