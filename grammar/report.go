package grammar

import (
	"github.com/nihei9/tabgen/spec"
)

// genReport snapshots the construction into the outward report value.
// Production numbers use the outward numbering, i.e. the augmenting start
// rule is production 0; symbols keep their description ids, with the
// augmented start symbol appearing as the symbol count.
func genReport(symTab *symbolTable, m *itemModel, aut *lr0Automaton, la *lalrContext, pc *parserContext) *spec.Report {
	report := &spec.Report{}

	for t := 0; t < symTab.tokenCount; t++ {
		report.Terminals = append(report.Terminals, &spec.Terminal{
			Number:        t,
			Name:          symTab.names[t],
			Precedence:    symTab.prec[t],
			Associativity: string(symTab.assoc[t]),
		})
	}

	for nt := symTab.tokenCount; nt < symTab.symbolCount; nt++ {
		report.NonTerminals = append(report.NonTerminals, &spec.NonTerminal{
			Number: nt,
			Name:   symTab.names[nt],
		})
	}

	for r := ruleNumStart; r.Int() < m.ruleCount(); r++ {
		rhs := make([]int, m.rules[r].rhsLen)
		copy(rhs, m.rhsSymbols(r))
		report.Productions = append(report.Productions, &spec.ProductionReport{
			Number:        outwardRule(r),
			LHS:           int(m.rules[r].lhs),
			RHS:           rhs,
			Precedence:    m.rules[r].prec,
			Associativity: string(m.rules[r].assoc),
		})
	}

	for _, state := range aut.states {
		s := &spec.State{
			Number: state.num.Int(),
		}

		for _, it := range state.kernel {
			r, dot := m.itemRule(it)
			s.Kernel = append(s.Kernel, &spec.Item{
				Production: outwardRule(r),
				Dot:        dot,
			})
		}

		for _, dest := range state.shifts {
			tr := &spec.Transition{
				Symbol: int(aut.states[dest].accessingSymbol),
				State:  dest.Int(),
			}
			if symTab.isTerminal(aut.states[dest].accessingSymbol) {
				s.Shift = append(s.Shift, tr)
			} else {
				s.GoTo = append(s.GoTo, tr)
			}
		}

		for slot := la.laIndex[state.num]; slot < la.laIndex[state.num+1]; slot++ {
			var lookAhead []int
			la.laSets.ForEachSet(slot, func(term int) {
				lookAhead = append(lookAhead, term)
			})
			s.Reduce = append(s.Reduce, &spec.Reduce{
				LookAhead:  lookAhead,
				Production: outwardRule(la.laRules[slot]),
			})
		}

		for _, con := range pc.conflicts {
			switch c := con.(type) {
			case *shiftReduceConflict:
				if c.state != state.num {
					continue
				}
				s.SRConflict = append(s.SRConflict, &spec.SRConflict{
					Symbol:            int(c.sym),
					State:             c.nextState.Int(),
					Production:        outwardRule(c.rule),
					AdoptedState:      adoptedState(pc, state.num, c.sym),
					AdoptedProduction: adoptedProduction(pc, state.num, c.sym),
				})
			case *reduceReduceConflict:
				if c.state != state.num {
					continue
				}
				adopted := outwardRule(c.rule1)
				if p := adoptedProduction(pc, state.num, c.sym); p != nil {
					adopted = *p
				}
				s.RRConflict = append(s.RRConflict, &spec.RRConflict{
					Symbol:            int(c.sym),
					Production1:       outwardRule(c.rule1),
					Production2:       outwardRule(c.rule2),
					AdoptedProduction: adopted,
				})
			}
		}

		if d := pc.defaults[state.num]; d != ruleNumNil {
			s.DefaultReduction = outwardRule(d)
		}

		report.States = append(report.States, s)
	}

	return report
}

func outwardRule(r ruleNum) int {
	return r.Int() - ruleNumStart.Int()
}

func adoptedState(pc *parserContext, state stateNum, sym symbolNum) *int {
	for _, act := range pc.actions[state] {
		if act.sym == sym && act.suppressed == notSuppressed && act.code == actionShift {
			n := act.number
			return &n
		}
	}
	return nil
}

func adoptedProduction(pc *parserContext, state stateNum, sym symbolNum) *int {
	for _, act := range pc.actions[state] {
		if act.sym == sym && act.suppressed == notSuppressed && act.code == actionReduce {
			n := outwardRule(ruleNum(act.number))
			return &n
		}
	}
	return nil
}
