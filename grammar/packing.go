package grammar

import (
	"errors"
	"fmt"
	"strings"

	verr "github.com/nihei9/tabgen/error"
	"github.com/nihei9/tabgen/packer"
	"github.com/nihei9/tabgen/spec"
)

// genGeneratedTables packs the resolved actions and gotos into the
// displacement tables and assembles the outward result value.
//
// The vector layout is: one shift vector per state, then one reduce vector
// per state, then one goto vector per caller non-terminal. Reduce values
// and every rule-indexed output array are offset by the two reserved rule
// slots, so the augmenting start rule is rule 0 outward.
func genGeneratedTables(symTab *symbolTable, m *itemModel, aut *lr0Automaton, la *lalrContext, pc *parserContext, desc *spec.GrammarDescription) (*spec.GeneratedTables, error) {
	nstates := len(aut.states)
	nvars := symTab.realNonTermCount()

	vecs := make([]*packer.Vector, 2*nstates+nvars)
	for i := range vecs {
		vecs[i] = &packer.Vector{}
	}

	for s, acts := range pc.actions {
		shift := vecs[s]
		reduce := vecs[nstates+s]
		for _, act := range acts {
			if act.suppressed != notSuppressed {
				continue
			}
			switch act.code {
			case actionShift:
				shift.Keys = append(shift.Keys, int(act.sym))
				shift.Values = append(shift.Values, act.number)
			case actionReduce:
				if ruleNum(act.number) == pc.defaults[s] {
					continue
				}
				reduce.Keys = append(reduce.Keys, int(act.sym))
				reduce.Values = append(reduce.Values, act.number-ruleNumStart.Int())
			}
		}
	}

	defaultGoto := make([]int, nvars)
	for v := 0; v < nvars; v++ {
		lo, hi := la.gotoMap[v], la.gotoMap[v+1]
		if lo == hi {
			continue
		}

		counts := make([]int, nstates)
		for i := lo; i < hi; i++ {
			counts[la.gotos[i].to]++
		}
		def := 0
		for s := 1; s < nstates; s++ {
			if counts[s] > counts[def] {
				def = s
			}
		}
		defaultGoto[v] = def

		vec := vecs[2*nstates+v]
		for i := lo; i < hi; i++ {
			if la.gotos[i].to.Int() == def {
				continue
			}
			vec.Keys = append(vec.Keys, la.gotos[i].from.Int())
			vec.Values = append(vec.Values, la.gotos[i].to.Int())
		}
	}

	packed, err := packer.NewPacker(maxTableIndex).Pack(vecs, 2*nstates)
	if err != nil {
		if errors.Is(err, packer.ErrTooLarge) {
			return nil, &verr.GenerationError{
				Status: verr.StatusTooManyItems,
				Cause:  err,
			}
		}
		return nil, err
	}

	tab := &spec.GeneratedTables{
		DefaultReductions: make([]int, nstates),
		ShiftIndex:        make([]int, nstates),
		ReduceIndex:       make([]int, nstates),
		GotoIndex:         make([]int, nvars),
		DefaultGoto:       defaultGoto,
		Table:             packed.Table,
		Check:             packed.Check,
		TokenCount:        symTab.tokenCount,
		LastToken:         symTab.tokenCount - 1,
		UndefinedToken:    symTab.tokenCount,
		FinalState:        pc.finalState.Int(),
		StartRule:         0,
		TableSize:         packed.High,

		ShiftReduceConflicts:  pc.srTotal - desc.ExpectedShiftReduceConflicts,
		ReduceReduceConflicts: pc.rrTotal - desc.ExpectedReduceReduceConflicts,
		UnusedRules:           pc.unusedRules,

		VariablePrefix: desc.VariablePrefix,
		OutputFileName: desc.OutputFileName,
	}

	for s := 0; s < nstates; s++ {
		if d := pc.defaults[s]; d != ruleNumNil {
			tab.DefaultReductions[s] = d.Int() - ruleNumStart.Int()
		}
		tab.ShiftIndex[s] = packed.Bases[s]
		tab.ReduceIndex[s] = packed.Bases[nstates+s]
	}
	for v := 0; v < nvars; v++ {
		tab.GotoIndex[v] = packed.Bases[2*nstates+v]
	}

	for r := ruleNumStart; r.Int() < m.ruleCount(); r++ {
		tab.LeftSide = append(tab.LeftSide, symTab.nonTermOrdinal(m.rules[r].lhs))
		tab.RuleLength = append(tab.RuleLength, m.rules[r].rhsLen)
		tab.Rules = append(tab.Rules, ruleToString(symTab, m, r))
	}

	tab.Names = make([]string, 0, symTab.symbolCount+2)
	for t := 0; t < symTab.tokenCount; t++ {
		tab.Names = append(tab.Names, symTab.names[t])
	}
	tab.Names = append(tab.Names, "illegal-symbol")
	for nt := symTab.tokenCount; nt < symTab.symbolCount; nt++ {
		tab.Names = append(tab.Names, symTab.names[nt])
	}
	tab.Names = append(tab.Names, augmentedSymbolName)

	return tab, nil
}

func ruleToString(symTab *symbolTable, m *itemModel, r ruleNum) string {
	var w strings.Builder
	fmt.Fprintf(&w, "%v :", symTab.name(m.rules[r].lhs))
	for _, sym := range m.rhsSymbols(r) {
		fmt.Fprintf(&w, " %v", symTab.name(symbolNum(sym)))
	}
	return w.String()
}
