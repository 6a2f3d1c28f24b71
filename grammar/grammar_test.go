package grammar

import (
	"errors"
	"testing"

	verr "github.com/nihei9/tabgen/error"
)

func TestGenerate_SingleRule(t *testing.T) {
	tab, report, err := Generate(descSingleRule(t), EnableReporting())
	if err != nil {
		t.Fatal(err)
	}

	if tab.FinalState != 2 {
		t.Errorf("unexpected final state; want: %v, got: %v", 2, tab.FinalState)
	}
	if tab.StartRule != 0 {
		t.Errorf("unexpected start rule; want: %v, got: %v", 0, tab.StartRule)
	}
	if tab.LastToken != 1 || tab.UndefinedToken != 2 {
		t.Errorf("unexpected token bounds; last: %v, undefined: %v", tab.LastToken, tab.UndefinedToken)
	}
	if tab.ShiftReduceConflicts != 0 || tab.ReduceReduceConflicts != 0 || tab.UnusedRules != 0 {
		t.Errorf("unexpected diagnostics: %v/%v conflicts, %v unused", tab.ShiftReduceConflicts, tab.ReduceReduceConflicts, tab.UnusedRules)
	}

	expectedNames := []string{"$end", "a", "illegal-symbol", "s", "$accept"}
	if len(tab.Names) != len(expectedNames) {
		t.Fatalf("unexpected names; want: %v, got: %v", expectedNames, tab.Names)
	}
	for i, name := range expectedNames {
		if tab.Names[i] != name {
			t.Fatalf("unexpected names; want: %v, got: %v", expectedNames, tab.Names)
		}
	}
	if tab.Names[tab.UndefinedToken] != "illegal-symbol" {
		t.Errorf("the undefined token must name the illegal symbol; got: %v", tab.Names[tab.UndefinedToken])
	}

	expectedRules := []string{"$accept : s $end", "s : a"}
	if len(tab.Rules) != len(expectedRules) {
		t.Fatalf("unexpected rules; want: %v, got: %v", expectedRules, tab.Rules)
	}
	for i, r := range expectedRules {
		if tab.Rules[i] != r {
			t.Fatalf("unexpected rules; want: %v, got: %v", expectedRules, tab.Rules)
		}
	}

	if tab.RuleLength[0] != 2 || tab.RuleLength[1] != 1 {
		t.Errorf("unexpected rule lengths: %v", tab.RuleLength)
	}
	if tab.LeftSide[1] != 0 {
		t.Errorf("the caller rule must reduce to the first non-terminal ordinal; got: %v", tab.LeftSide[1])
	}

	// The state after a reduces s → a by default.
	if tab.DefaultReductions[1] != 1 {
		t.Errorf("unexpected default reductions: %v", tab.DefaultReductions)
	}

	if report == nil {
		t.Fatal("Generate must return a report when reporting is enabled")
	}
	if len(report.States) != 4 || len(report.Productions) != 2 {
		t.Fatalf("unexpected report shape: %v states, %v productions", len(report.States), len(report.Productions))
	}
}

func TestGenerate_WithoutReporting(t *testing.T) {
	tab, report, err := Generate(descSingleRule(t))
	if err != nil {
		t.Fatal(err)
	}
	if tab == nil {
		t.Fatal("Generate returns nil without any error")
	}
	if report != nil {
		t.Fatal("Generate must not return a report by default")
	}
}

func TestGenerate_InvalidSpecification(t *testing.T) {
	desc := descSingleRule(t)
	desc.Symbols[2].Productions = nil

	tab, _, err := Generate(desc)
	if tab != nil {
		t.Fatal("Generate must not return tables on a validation failure")
	}
	var genErr *verr.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if genErr.Status != verr.StatusInvalidSpecification {
		t.Fatalf("unexpected status; want: %v, got: %v", verr.StatusInvalidSpecification, genErr.Status)
	}
	if !errors.Is(err, semErrMissingProduction) {
		t.Fatalf("the cause must be preserved; got: %v", err)
	}
}

func TestGenerate_ExpectedConflicts(t *testing.T) {
	t.Run("residual counts subtract the expectation", func(t *testing.T) {
		desc := descDanglingElse(t, false)
		desc.ExpectedShiftReduceConflicts = 1

		tab, _, err := Generate(desc)
		if err != nil {
			t.Fatal(err)
		}
		if tab.ShiftReduceConflicts != 0 {
			t.Errorf("unexpected residual conflicts: %v", tab.ShiftReduceConflicts)
		}
	})

	t.Run("unexpected conflicts stay visible", func(t *testing.T) {
		tab, _, err := Generate(descDanglingElse(t, false))
		if err != nil {
			t.Fatal(err)
		}
		if tab.ShiftReduceConflicts != 1 {
			t.Errorf("unexpected residual conflicts: %v", tab.ShiftReduceConflicts)
		}
	})

	t.Run("precedence removes the conflict entirely", func(t *testing.T) {
		tab, _, err := Generate(descDanglingElse(t, true))
		if err != nil {
			t.Fatal(err)
		}
		if tab.ShiftReduceConflicts != 0 {
			t.Errorf("unexpected residual conflicts: %v", tab.ShiftReduceConflicts)
		}
	})
}

func TestGenerate_ReduceReduceTie(t *testing.T) {
	tab, _, err := Generate(descReduceReduceTie(t))
	if err != nil {
		t.Fatal(err)
	}
	if tab.ReduceReduceConflicts != 1 || tab.ShiftReduceConflicts != 0 {
		t.Errorf("unexpected conflicts: %v/%v", tab.ShiftReduceConflicts, tab.ReduceReduceConflicts)
	}
	if tab.UnusedRules != 1 {
		t.Errorf("unexpected unused rule count: %v", tab.UnusedRules)
	}
}

// TestGenerate_TableConsistency cross-checks the packed tables against the
// report of a conflict-free grammar: every shift, goto, and reduce the
// report names must be recoverable through the displacement lookup.
func TestGenerate_TableConsistency(t *testing.T) {
	tab, report, err := Generate(descArith(t), EnableReporting())
	if err != nil {
		t.Fatal(err)
	}

	lookup := func(base, key int) (int, bool) {
		if base == 0 {
			return 0, false
		}
		idx := base + key
		if idx < 0 || idx > tab.TableSize || tab.Check[idx] != key {
			return 0, false
		}
		return tab.Table[idx], true
	}

	for _, state := range report.States {
		for _, tr := range state.Shift {
			dest, ok := lookup(tab.ShiftIndex[state.Number], tr.Symbol)
			if !ok || dest != tr.State {
				t.Errorf("state %v: shift on %v must reach %v via the table", state.Number, tr.Symbol, tr.State)
			}
		}
		for _, tr := range state.GoTo {
			ord := tr.Symbol - tab.TokenCount
			dest, ok := lookup(tab.GotoIndex[ord], state.Number)
			if !ok {
				dest = tab.DefaultGoto[ord]
			}
			if dest != tr.State {
				t.Errorf("state %v: goto on %v must reach %v via the table; got %v", state.Number, tr.Symbol, tr.State, dest)
			}
		}
		for _, red := range state.Reduce {
			for _, term := range red.LookAhead {
				r, ok := lookup(tab.ReduceIndex[state.Number], term)
				if !ok {
					r = tab.DefaultReductions[state.Number]
				}
				if r != red.Production {
					t.Errorf("state %v: reduce on %v must name production %v; got %v", state.Number, term, red.Production, r)
				}
			}
		}
	}

	// Base 0 is reserved for empty vectors; no packed vector may carry it
	// together with entries.
	for s := range report.States {
		if tab.ShiftIndex[s] == 0 && len(report.States[s].Shift) > 0 {
			t.Errorf("state %v has shifts but an empty shift vector", s)
		}
	}
}

func TestGenerate_VerbatimFields(t *testing.T) {
	desc := descSingleRule(t)
	desc.VariablePrefix = "yy"
	desc.OutputFileName = "y.tab.c"

	tab, _, err := Generate(desc)
	if err != nil {
		t.Fatal(err)
	}
	if tab.VariablePrefix != "yy" || tab.OutputFileName != "y.tab.c" {
		t.Errorf("opaque fields must be copied verbatim; got: %v, %v", tab.VariablePrefix, tab.OutputFileName)
	}
}
